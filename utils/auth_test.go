package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo1", hash)
	assert.True(t, CheckPasswordHash("segredo1", hash))
	assert.False(t, CheckPasswordHash("errada", hash))
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(secret, time.Hour, 3, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.ID)
	assert.Equal(t, "a@coleta.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = GenerateToken("", time.Hour, 3, "a@coleta.com", RoleAdmin)
	assert.Error(t, err)
}

func TestParseTokenErrors(t *testing.T) {
	expired, err := GenerateToken(secret, -time.Minute, 1, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)
	otherKey, err := GenerateToken("other-secret", time.Hour, 1, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{ID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", ErrMissingToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong key", otherKey, ErrInvalidToken},
		{"garbage", "abc.def.ghi", ErrInvalidToken},
		{"none algorithm", noneAlg, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(secret, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", mw, func(c *gin.Context) {
		id, _ := CurrentAdminID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "viaKey": c.GetBool(ContextViaAPIKey)})
	})
	return r
}

func doRequest(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(AuthMiddleware(secret))
	valid, err := GenerateToken(secret, time.Hour, 5, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)
	expired, err := GenerateToken(secret, -time.Minute, 5, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)

	w := doRequest(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token não fornecido"}`, w.Body.String())

	w = doRequest(r, map[string]string{"Authorization": "Bearer " + expired})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token expirado"}`, w.Body.String())

	w = doRequest(r, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token inválido"}`, w.Body.String())

	w = doRequest(r, map[string]string{"Authorization": "Bearer " + valid})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"viaKey":false}`, w.Body.String())
}

func TestBearerOrAPIKey(t *testing.T) {
	valid, err := GenerateToken(secret, time.Hour, 5, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)

	t.Run("key configured", func(t *testing.T) {
		r := newAuthRouter(BearerOrAPIKey(secret, "chave"))

		w := doRequest(r, map[string]string{APIKeyHeader: "chave"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":0,"viaKey":true}`, w.Body.String())

		w = doRequest(r, map[string]string{APIKeyHeader: "errada"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doRequest(r, map[string]string{"Authorization": "Bearer " + valid})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("key disabled", func(t *testing.T) {
		r := newAuthRouter(BearerOrAPIKey(secret, ""))

		w := doRequest(r, map[string]string{APIKeyHeader: ""})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doRequest(r, map[string]string{APIKeyHeader: "qualquer"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Token não fornecido"}`, w.Body.String())
	})
}

func TestGenerateJWTSecret(t *testing.T) {
	a, err := GenerateJWTSecret()
	require.NoError(t, err)
	b, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)

	token, err := GenerateToken(a, time.Hour, 1, "a@coleta.com", RoleAdmin)
	require.NoError(t, err)
	_, err = ParseToken(a, token)
	assert.NoError(t, err)
}
