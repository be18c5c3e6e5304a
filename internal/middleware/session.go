package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// SessionKey is the context key for the caller's session key
const SessionKey contextKey = "session_key"

// SessionKeyFromToken derives the session key from a bearer token: the
// SHA-256 digest of the whole token. Claims are never trusted for the key
// because signatures are only checked by the finance API, so two tokens share
// cached data only when they are byte-identical. A JWT whose exp has passed is
// rejected early to spare a remote round trip.
func SessionKeyFromToken(token string, now time.Time) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return "", fmt.Errorf("%w: malformed exp claim", domain.ErrUnauthorized)
		}
		if exp != nil && !now.Before(exp.Time) {
			return "", fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
	}

	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:]), nil
}

// TokenSessionResolver resolves websocket query tokens into session keys
type TokenSessionResolver struct {
	now func() time.Time
}

func NewTokenSessionResolver() *TokenSessionResolver {
	return &TokenSessionResolver{now: time.Now}
}

// ResolveSession implements the websocket handler's session lookup
func (r *TokenSessionResolver) ResolveSession(token string) (string, error) {
	return SessionKeyFromToken(token, r.now())
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Session returns an Echo middleware that requires a bearer token, derives the
// session key from it and forwards the token to the finance API through the
// request context.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				return unauthorizedError(c, "invalid authorization header format")
			}

			sessionKey, err := SessionKeyFromToken(token, time.Now())
			if err != nil {
				log.Debug().Err(err).Msg("Session token rejected")
				return unauthorizedError(c, "invalid token")
			}

			ctx := domain.ContextWithToken(c.Request().Context(), token)
			ctx = context.WithValue(ctx, SessionKey, sessionKey)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetSessionKey extracts the session key from the request context
func GetSessionKey(c echo.Context) string {
	if key, ok := c.Request().Context().Value(SessionKey).(string); ok {
		return key
	}
	return ""
}

// GetToken extracts the forwarded bearer token from the request context
func GetToken(c echo.Context) string {
	return domain.TokenFromContext(c.Request().Context())
}
