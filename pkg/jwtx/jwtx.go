// Package jwtx wraps github.com/golang-jwt/jwt/v5 with the claim set and
// HS256 signing used for attendance service access tokens.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a freshly issued access token.
const DefaultAccessTokenTTL = 12 * time.Hour

var (
	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Claims is the access-token claim set. Scopes are derived from the user's
// role at issue time.
type Claims struct {
	Subject string
	Email   string
	Role    string
	Scopes  []string
}

type registeredClaims struct {
	jwt.RegisteredClaims

	Email  string   `json:"email,omitempty"`
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// Signer mints and verifies HS256 access tokens.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner returns a Signer for the given shared secret and issuer.
// A non-positive ttl falls back to DefaultAccessTokenTTL.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: signing secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &Signer{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// Sign issues a signed access token for the given claims.
func (s *Signer) Sign(c Claims) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registeredClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email:  c.Email,
		Role:   c.Role,
		Scopes: c.Scopes,
	})

	return token.SignedString(s.secret)
}

// Verify parses and validates a raw token, returning its claims.
func (s *Signer) Verify(raw string) (Claims, error) {
	var rc registeredClaims

	token, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Subject: rc.Subject,
		Email:   rc.Email,
		Role:    rc.Role,
		Scopes:  rc.Scopes,
	}, nil
}
