package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-verified-here"))
	require.NoError(t, err)
	return token
}

func TestSessionKeyFromToken(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("jwt keyed by digest", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1", "exp": now.Add(time.Hour).Unix()})
		key, err := SessionKeyFromToken(token, now)
		require.NoError(t, err)
		assert.Len(t, key, len("tok:")+64)
		assert.NotContains(t, key, "user-1")
	})

	t.Run("same subject, different tokens", func(t *testing.T) {
		a := signedToken(t, jwt.MapClaims{"sub": "user-1", "iat": now.Unix()})
		b := signedToken(t, jwt.MapClaims{"sub": "user-1", "iat": now.Add(time.Minute).Unix()})
		keyA, err := SessionKeyFromToken(a, now)
		require.NoError(t, err)
		keyB, err := SessionKeyFromToken(b, now)
		require.NoError(t, err)
		assert.NotEqual(t, keyA, keyB)
	})

	t.Run("unsigned token cannot borrow a subject", func(t *testing.T) {
		genuine := signedToken(t, jwt.MapClaims{"sub": "alice"})
		forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		realKey, err := SessionKeyFromToken(genuine, now)
		require.NoError(t, err)
		forgedKey, err := SessionKeyFromToken(forged, now)
		require.NoError(t, err)
		assert.NotEqual(t, realKey, forgedKey)
	})

	t.Run("expired jwt", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1", "exp": now.Add(-time.Minute).Unix()})
		_, err := SessionKeyFromToken(token, now)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("opaque token", func(t *testing.T) {
		key, err := SessionKeyFromToken("opaque-token", now)
		require.NoError(t, err)
		assert.Len(t, key, len("tok:")+64)

		again, _ := SessionKeyFromToken("opaque-token", now)
		assert.Equal(t, key, again)

		other, _ := SessionKeyFromToken("other-token", now)
		assert.NotEqual(t, key, other)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := SessionKeyFromToken("  ", now)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestSession_Middleware(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"opaque bearer", "Bearer opaque-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var gotKey, gotToken string
			handler := func(c echo.Context) error {
				gotKey = GetSessionKey(c)
				gotToken = GetToken(c)
				return c.NoContent(http.StatusOK)
			}

			require.NoError(t, Session()(handler)(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.NotEmpty(t, gotKey)
				assert.Equal(t, "opaque-token", gotToken)
			} else {
				assert.Contains(t, rec.Body.String(), "https://fortuna.app/errors/unauthorized")
			}
		})
	}
}

func TestTokenSessionResolver(t *testing.T) {
	resolver := NewTokenSessionResolver()
	token := signedToken(t, jwt.MapClaims{"sub": "user-9"})

	key, err := resolver.ResolveSession(token)
	require.NoError(t, err)

	want, err := SessionKeyFromToken(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, want, key)
}
