package jwt

import (
	"errors"
	"fmt"
	"time"
	"usuarios-backend/app/server/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// All parse failures are unauthenticated requests; the three kinds only
// differ in what gets logged.
var (
	ErrInvalidToken   = fmt.Errorf("%w: invalid token", common.ErrUnauthenticated)
	ErrExpired        = fmt.Errorf("%w: token expired", common.ErrUnauthenticated)
	ErrMissingSubject = fmt.Errorf("%w: token has no subject", common.ErrUnauthenticated)
)

type JWT struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type Option func(*JWT)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

func New(key string, ttl time.Duration, opts ...Option) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	j := &JWT{key: []byte(key), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) SignToken(subject string) (string, error) {
	now := j.now()

	// Create claims
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		ID:        uuid.NewString(),
	}

	// Sign and return
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
}

func (j *JWT) ParseSubject(tokenString string) (string, error) {
	if len(tokenString) == 0 {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	return claims.Subject, nil
}
