package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "concierge-backend"

// ErrInvalidToken covers expired, malformed, and mis-signed tokens alike;
// callers treat them all as an authentication failure.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is what the rest of the service needs to know about a caller.
type Claims struct {
	UserID  uint
	IsAdmin bool
}

// Service verifies and mints the HS256 tokens used by the HTTP and websocket
// surfaces. Issuance flows (login, refresh) live in the identity service;
// Issue exists for the dev token endpoint and tests.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a token service. ttl bounds minted tokens only.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for the given identity.
func (s *Service) Issue(userID uint, isAdmin bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"is_admin": isAdmin,
		"iss":      issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token and extracts the caller's identity.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, ok := mapClaims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, ErrInvalidToken
	}

	isAdmin, _ := mapClaims["is_admin"].(bool)

	return &Claims{UserID: uint(rawID), IsAdmin: isAdmin}, nil
}
