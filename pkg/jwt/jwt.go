package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes what a token may be used for
type Kind string

const (
	KindEmailConfirmation Kind = "email_confirmation"
	KindPasswordReset     Kind = "password_reset"
)

// Verification failures. Subject lookups are the caller's concern.
var (
	ErrMalformed = errors.New("malformed token")
	ErrExpired   = errors.New("token has expired")
	ErrWrongKind = errors.New("token kind mismatch")
)

// Claims is the signed payload of a verification token
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"type"`
}

// Manager issues and verifies stateless HS256 tokens.
// It keeps no record of issued or consumed tokens.
type Manager struct {
	secretKey []byte
	now       func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for issuing and expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token manager signing with secret
func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{
		secretKey: []byte(secret),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue signs a token for subject that expires ttl from now
func (m *Manager) Issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify checks signature, expiry and kind, returning the decoded claims
func (m *Manager) Verify(tokenString string, expected Kind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrMalformed
	}
	if claims.Kind != expected {
		return nil, ErrWrongKind
	}
	return claims, nil
}
