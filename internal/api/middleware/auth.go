package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyClaims = "claims"
	KeyUserID = "user_id"
	KeyRole   = "role"
)

// Auth validates the bearer JWT, rejects revoked tokens, and injects the
// claims into the echo context. denylist may be nil.
func Auth(jwtSecret string, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			mc := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], mc, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims := claimsFrom(mc)
			if claims.UserID == "" || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
			}

			if denylist != nil && claims.TokenID != "" {
				revoked, err := denylist.IsRevoked(c.Request().Context(), claims.TokenID)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "token check unavailable")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(KeyClaims, claims)
			c.Set(KeyUserID, claims.UserID)
			c.Set(KeyRole, claims.Role)

			return next(c)
		}
	}
}

func claimsFrom(mc jwt.MapClaims) ports.Claims {
	var claims ports.Claims
	claims.TokenID, _ = mc["jti"].(string)
	claims.UserID, _ = mc["sub"].(string)
	claims.Username, _ = mc["username"].(string)
	claims.Role, _ = mc["role"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.Expires = exp.Time
	} else {
		claims.Expires = time.Now().Add(24 * time.Hour)
	}
	return claims
}
