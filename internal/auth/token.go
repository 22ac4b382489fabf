package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the lifetime of every minted backend token.
const TokenTTL = time.Hour

// ErrSigningKey is returned when the minter has no secret to sign with.
var ErrSigningKey = errors.New("auth: token signing secret is not configured")

// Claims is the payload the backend reads from a minted token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Minter signs short-lived HS256 tokens from a session. It holds no state
// besides the secret; every call produces a new token.
type Minter struct {
	secret []byte
}

// NewMinter returns a minter for secret. An empty secret is accepted and
// reported by Mint.
func NewMinter(secret string) *Minter {
	return &Minter{secret: []byte(secret)}
}

// Mint returns a token for sess that expires TokenTTL from now.
func (m *Minter) Mint(sess *Session) (string, time.Time, error) {
	if !sess.Valid() {
		return "", time.Time{}, ErrInvalidSession
	}
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrSigningKey
	}
	now := timeNow().Truncate(time.Second)
	exp := now.Add(TokenTTL)
	claims := Claims{
		Email: sess.Email,
		Name:  sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			// distinguishes tokens minted within the same second
			ID: uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token minted with the same secret and checks its expiry.
func (m *Minter) Verify(token string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrSigningKey
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
