package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Shortfalls also carry the largest amount that would have succeeded.
type errorResponse struct {
	Error     string `json:"error"`
	Requested *int64 `json:"requested,omitempty"`
	Available *int64 `json:"available,omitempty"`
	MaxAmount *int64 `json:"max_amount,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes, logs unexpected ones without leaking details, and
// renders {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var shortfall *domain.ShortfallError
	if errors.As(err, &shortfall) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:     shortfall.Error(),
			Requested: &shortfall.Requested,
			Available: &shortfall.Available,
			MaxAmount: &shortfall.MaxAmount,
		}
	}

	switch {
	case errors.Is(err, domain.ErrPartialTrade):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("partial trade")
		return http.StatusInternalServerError, errorResponse{Error: "trade partially applied; support has been notified"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: sentinelMessage(err, notFoundErrors)}
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownResource),
		errors.Is(err, domain.ErrUnknownTradeKind):
		return http.StatusBadRequest, errorResponse{Error: sentinelMessage(err, badRequestErrors)}
	case errors.Is(err, domain.ErrDuplicateTrade):
		return http.StatusConflict, errorResponse{Error: "duplicate trade submission"}
	case errors.Is(err, domain.ErrTradeConflict):
		return http.StatusConflict, errorResponse{Error: "trade aborted after concurrent updates, please retry"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrTokenRevoked):
		return http.StatusUnauthorized, errorResponse{Error: "token revoked"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("store unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "service temporarily unavailable"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

var (
	notFoundErrors   = []error{domain.ErrPlanetNotFound, domain.ErrAccountNotFound, domain.ErrUserNotFound, domain.ErrNotFound}
	badRequestErrors = []error{domain.ErrInvalidAmount, domain.ErrUnknownResource, domain.ErrUnknownTradeKind}
)

// sentinelMessage returns the message of the first candidate err matches, so
// clients see "planet not found" rather than the wrapped operation chain.
func sentinelMessage(err error, candidates []error) string {
	for _, target := range candidates {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
