package handler

import (
	"time"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error     string `json:"error"`
	MaxAmount *int64 `json:"max_amount,omitempty"`
}

// --- auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type meResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// --- catalog ---

type planetListResponse struct {
	Planets []*domain.Planet `json:"planets"`
	Count   int              `json:"count"`
}

type pricesResponse struct {
	Prices domain.PriceTable `json:"prices"`
}

// --- trades ---

type tradeRequest struct {
	Resource string `json:"resource" validate:"required"`
	Amount   int64  `json:"amount"   validate:"gt=0"`
}

type quoteRequest struct {
	Kind     string `json:"kind"      validate:"required,oneof=buy sell"`
	PlanetID string `json:"planet_id"`
	Resource string `json:"resource"  validate:"required"`
	Amount   int64  `json:"amount"    validate:"gt=0"`
}
