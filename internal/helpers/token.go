package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies HS256 bearer tokens. Verify depends only
// on the token, the secret and the clock.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests that need to move past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) { ts.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	ts := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

func (ts *TokenService) Issue(subjectID string) (string, error) {
	if len(ts.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	if subjectID == "" {
		return "", errors.New("token subject is empty")
	}

	now := ts.now()
	claims := &Claims{
		User: ClaimsUser{ID: subjectID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject id bound into tokenStr. Bad signatures, other
// algorithms, expired tokens and payloads without a subject all fail with an
// error wrapping ErrInvalidToken.
func (ts *TokenService) Verify(tokenStr string) (string, error) {
	if len(ts.secret) == 0 {
		return "", fmt.Errorf("%w: secret is not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User.ID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.User.ID, nil
}
