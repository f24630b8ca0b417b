// utils/auth.go
package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"

	ContextAdminID    = "adminId"
	ContextAdminEmail = "adminEmail"
	ContextRole       = "role"
	ContextViaAPIKey  = "viaApiKey"

	APIKeyHeader = "X-API-Key"
)

var (
	ErrMissingToken = errors.New("Token não fornecido")
	ErrExpiredToken = errors.New("Token expirado")
	ErrInvalidToken = errors.New("Token inválido")
)

// AdminClaims is the payload of an administrator session token.
type AdminClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWTSecret returns 32 random bytes, base64 encoded, suitable for
// JWT_SECRET.
func GenerateJWTSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs an HS256 session token for an administrator.
func GenerateToken(secret string, ttl time.Duration, adminID uint, email, role string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	now := time.Now()
	claims := AdminClaims{
		ID:    adminID,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry. The returned error is one of
// ErrMissingToken, ErrExpiredToken or ErrInvalidToken.
func ParseToken(secret, tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.ID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func authenticate(c *gin.Context, secret string) bool {
	claims, err := ParseToken(secret, bearerToken(c))
	if err != nil {
		RespondWithError(c, http.StatusUnauthorized, err.Error())
		return false
	}
	c.Set(ContextAdminID, claims.ID)
	c.Set(ContextAdminEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	return true
}

// AuthMiddleware requires a valid administrator bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// BearerOrAPIKey lets the chatbot integration in with the static key while
// staff keep using their session token. An empty apiKey disables the key path.
func BearerOrAPIKey(secret, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(APIKeyHeader); key != "" && apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Set(ContextViaAPIKey, true)
				c.Next()
				return
			}
			RespondWithError(c, http.StatusUnauthorized, "Chave de API inválida")
			return
		}
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// CurrentAdminID returns the authenticated administrator id, if any.
func CurrentAdminID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
