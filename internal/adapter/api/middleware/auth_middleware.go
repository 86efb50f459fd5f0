package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"salefinder/internal/infrastructure/firebase"
	"salefinder/pkg/errors"
	"salefinder/pkg/identity"
	"salefinder/pkg/response"
)

type AuthMiddleware struct {
	authClient *firebase.AuthClient
}

func NewAuthMiddleware(authClient *firebase.AuthClient) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
	}
}

// Authenticate verifies the bearer token and attaches both the raw subject
// id ("uid") and its pseudonymous digest ("hashUid") to the request
// context. Every downstream ownership check uses the hashUid; documents
// never see the raw uid. A missing or malformed header is a credential
// absence (401); a token the provider rejects is a refusal (403).
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		uid, err := m.authClient.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return response.Error(c, errors.Forbidden("Invalid or expired token", err))
		}

		c.Set("uid", uid)
		c.Set("hashUid", identity.HashUID(uid))

		return next(c)
	}
}
