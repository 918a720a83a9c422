// Package session issues and reads the stateless signed token that carries
// the current identity. There is no server-side session storage; the token
// is the session.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"storefront/internal/domain"
)

// DefaultRole is assumed when a token or user record carries no role.
const DefaultRole = "user"

// Claims is the token payload: the identity tuple plus registered claims.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and validates session tokens with a shared HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity. Role falls back to DefaultRole
// when the identity carries none.
func (m *Manager) Issue(identity domain.Identity) (string, error) {
	role := identity.Role
	if role == "" {
		role = DefaultRole
	}
	now := time.Now()
	claims := &Claims{
		Name:  identity.Name,
		Email: identity.Email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Identity projects the claims of a token back into an identity. An empty,
// expired, or otherwise invalid token is not an error: it is the anonymous
// state, reported as a nil identity.
func (m *Manager) Identity(tokenString string) *domain.Identity {
	if tokenString == "" {
		return nil
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}
	role := claims.Role
	if role == "" {
		role = DefaultRole
	}
	return &domain.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  role,
	}
}

// TTLSeconds exposes the session lifetime in seconds, for cookie max-age.
func (m *Manager) TTLSeconds() int {
	return int(m.ttl.Seconds())
}
