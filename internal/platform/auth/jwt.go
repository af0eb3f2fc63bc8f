package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken TokenType = "access"
)

// Claims represents JWT claims
type Claims struct {
	UserID string    `json:"user_id"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager verifies access tokens issued by the external auth service.
// Token issuance (login, refresh, signup) is out of scope for this service;
// only verification is needed to resolve the userId on each request.
type JWTManager struct {
	accessSecret string
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(accessSecret string) *JWTManager {
	return &JWTManager{accessSecret: accessSecret}
}

// ValidateAccessToken validates an access token and returns the claims
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.accessSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Type != AccessToken {
		return nil, fmt.Errorf("invalid token type")
	}

	return claims, nil
}
