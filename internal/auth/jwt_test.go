package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestAuth(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, Init())
}

func TestInit_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, Init())
}

func TestTokenRoundTrip(t *testing.T) {
	initTestAuth(t)

	token, err := GenerateToken("ops@example.com")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "ops@example.com", claims.Subject)
}

func TestValidateToken_Garbage(t *testing.T) {
	initTestAuth(t)

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_WrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "key-one")
	require.NoError(t, Init())
	token, err := GenerateToken("ops@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "key-two")
	require.NoError(t, Init())
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	initTestAuth(t)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware(next)

	t.Run("health is public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("login is public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/login", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/ocr", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/ocr", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token passes claims", func(t *testing.T) {
		token, err := GenerateToken("ops@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/ocr", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "ops@example.com", gotClaims.Email)
	})
}
