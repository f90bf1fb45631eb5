package domain

import "time"

const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// User models an authenticated player or operator. Its ID doubles as the id
// of the player's trading Account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
