package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/model"
)

// Actor is the authenticated principal every operation runs as. The
// identity provider issues the token; this service only verifies it and
// trusts the embedded id and role.
type Actor struct {
	ID   string
	Role model.Role
}

type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager verifies HS256 bearer tokens. GenerateToken exists for the
// migration seeder and the integration tests; production tokens come from
// the identity provider sharing the same secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *TokenManager) GenerateToken(userID string, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) VerifyToken(tokenStr string) (*Actor, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected token signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, apperrors.Unauthorized("token is missing subject or role")
	}

	return &Actor{ID: claims.Subject, Role: claims.Role}, nil
}
