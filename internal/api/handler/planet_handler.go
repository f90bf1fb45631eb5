package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbital-exchange/trading-api/internal/api/metrics"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// PlanetHandler serves the planet catalog.
type PlanetHandler struct {
	catalog ports.CatalogService
}

func NewPlanetHandler(catalog ports.CatalogService) *PlanetHandler {
	return &PlanetHandler{catalog: catalog}
}

// List handles GET /v1/planets.
//
// @Summary      List planets
// @Tags         planets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  planetListResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/planets [get]
func (h *PlanetHandler) List(c echo.Context) error {
	planets, err := h.catalog.ListPlanets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, planetListResponse{Planets: planets, Count: len(planets)})
}

// Get handles GET /v1/planets/:id.
//
// @Summary      Get a planet
// @Tags         planets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Planet id (e.g. terra-prime)"
// @Success      200  {object}  domain.Planet
// @Failure      404  {object}  errorResponse
// @Router       /v1/planets/{id} [get]
func (h *PlanetHandler) Get(c echo.Context) error {
	planet, err := h.catalog.GetPlanet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, planet)
}

// Prices handles GET /v1/prices.
//
// @Summary      Global unit prices
// @Tags         planets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pricesResponse
// @Router       /v1/prices [get]
func (h *PlanetHandler) Prices(c echo.Context) error {
	return c.JSON(http.StatusOK, pricesResponse{Prices: h.catalog.Prices()})
}

// Seed handles POST /v1/admin/catalog/seed.
//
// @Summary      Seed the planet catalog
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SeedResult
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/admin/catalog/seed [post]
func (h *PlanetHandler) Seed(c echo.Context) error {
	res, err := h.catalog.Seed(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.PlanetsSeededTotal.WithLabelValues("added").Add(float64(res.Added))
	metrics.PlanetsSeededTotal.WithLabelValues("updated").Add(float64(res.Updated))
	return c.JSON(http.StatusOK, res)
}
