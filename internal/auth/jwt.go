// Package auth verifies the pre-issued chat tokens. Issuance lives in
// the account service; the signer here exists for that service's
// contract and for tests.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the display name and the stable user identifier.
type Claims struct {
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	jwt.RegisteredClaims
}

// Verifier wraps the HS256 shared secret.
type Verifier struct{ secret []byte }

func New(secret string) *Verifier { return &Verifier{secret: []byte(secret)} }

// Verify checks tok and returns its claims. Every failure mode
// (malformed, expired, wrong signature, missing fields) is collapsed
// into ErrInvalidToken; the client may simply resend auth.
func (v *Verifier) Verify(tok string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" || claims.Identifier == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Sign creates a token for the user with the given TTL.
func (v *Verifier) Sign(username, identifier string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:   username,
		Identifier: identifier,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(v.secret)
}
