package ports

import (
	"context"
	"time"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// RegisterInput carries the fields needed to open a player account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Claims is the verified content of an access token.
type Claims struct {
	TokenID  string
	UserID   string
	Username string
	Role     string
	Expires  time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, claims Claims) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
