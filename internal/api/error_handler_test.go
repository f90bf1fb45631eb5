package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/planets/cryos/buy", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"planet not found", fmt.Errorf("get planet %q: %w", "x", domain.ErrPlanetNotFound), http.StatusNotFound, "planet not found"},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound, "account not found"},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, domain.ErrInvalidAmount.Error()},
		{"unknown resource", fmt.Errorf("buy: %w", domain.ErrUnknownResource), http.StatusBadRequest, domain.ErrUnknownResource.Error()},
		{"duplicate", domain.ErrDuplicateTrade, http.StatusConflict, "duplicate trade submission"},
		{"conflict", domain.ErrTradeConflict, http.StatusConflict, "trade aborted after concurrent updates, please retry"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"store", fmt.Errorf("update account: %w: %w", domain.ErrStoreUnavailable, errors.New("socket closed")), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"partial", fmt.Errorf("%w: %w", domain.ErrPartialTrade, domain.ErrPlanetNotFound), http.StatusInternalServerError, "trade partially applied; support has been notified"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := renderError(t, tt.err)
			if code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if body.Error != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_ShortfallCarriesMaxAmount(t *testing.T) {
	err := fmt.Errorf("buy: %w", &domain.ShortfallError{
		Reason:    domain.ErrInsufficientCredits,
		Resource:  domain.ResourceMetals,
		Requested: 5,
		Required:  50,
		Available: 10,
		MaxAmount: 1,
	})

	code, body := renderError(t, err)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body.MaxAmount == nil || *body.MaxAmount != 1 {
		t.Fatalf("expected max_amount 1, got %v", body.MaxAmount)
	}
	if body.Requested == nil || *body.Requested != 5 || body.Available == nil || *body.Available != 10 {
		t.Fatalf("unexpected shortfall body: %+v", body)
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
