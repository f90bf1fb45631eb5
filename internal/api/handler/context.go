package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbital-exchange/trading-api/internal/api/middleware"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// user id means the route was mounted without Auth; reject with 401.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims, ok := c.Get(middleware.KeyClaims).(ports.Claims)
	if !ok || claims.UserID == "" {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
