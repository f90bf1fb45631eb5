package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Summary handles GET /v1/account.
//
// @Summary      Account dashboard
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AccountSummary
// @Failure      404  {object}  errorResponse
// @Router       /v1/account [get]
func (h *AccountHandler) Summary(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	summary, err := h.accounts.Summary(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
