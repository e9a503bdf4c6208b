// Package auth signs and checks the cookie that ties a browser to its open
// editor session.
//
// The editor keeps the record being edited in server memory (see
// editor.Store). The browser only holds a pointer to it: a JWT whose subject
// is the session ID and whose audience is the template type being edited.
//
// TOKEN LAYOUT:
//
//	{"sub":"<session id>","aud":["developer"],"iss":"folio","exp":...}
//
// Binding the audience to the template type means a cookie issued for the
// developer editor can never open the saas editor's session, even though
// both cookies travel on every request to the site.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/folio/internal/model"
)

const issuer = "folio"

// MinSecretLength is the shortest HMAC secret NewTokenService accepts.
const MinSecretLength = 16

// ErrTokenExpired is returned by Validate for a well-formed but stale token.
var ErrTokenExpired = errors.New("auth: token expired")

// TokenService signs and verifies editor session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. Tokens it issues expire after ttl,
// which should match the editor session TTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: session secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token lifetime must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate signs a token pointing at sessionID for the given template type.
func (s *TokenService) Generate(sessionID string, kind model.Kind) (string, error) {
	return s.GenerateWithDuration(sessionID, kind, s.ttl)
}

// GenerateWithDuration is Generate with an explicit lifetime.
func (s *TokenService) GenerateWithDuration(sessionID string, kind model.Kind, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   sessionID,
		Audience:  jwt.ClaimStrings{string(kind)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Claims is what a verified token says about its editor session.
type Claims struct {
	SessionID string
	ExpiresAt time.Time
}

// Validate verifies tokenStr and returns the session ID it points at.
// The token must have been issued for kind.
func (s *TokenService) Validate(tokenStr string, kind model.Kind) (string, error) {
	c, err := s.Parse(tokenStr, kind)
	if err != nil {
		return "", err
	}
	return c.SessionID, nil
}

// Parse is Validate returning the token's expiry as well.
func (s *TokenService) Parse(tokenStr string, kind model.Kind) (Claims, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(string(kind)),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Claims{}, errors.New("auth: token has no subject")
	}
	return Claims{SessionID: c.Subject, ExpiresAt: c.ExpiresAt.Time}, nil
}

// NeedsRefresh reports whether a token expiring at exp has used up more than
// half of its lifetime. The session store expires on idle time, so a token
// for a session still in use must be reissued before it runs out.
func (s *TokenService) NeedsRefresh(exp time.Time) bool {
	return time.Until(exp) < s.ttl/2
}
