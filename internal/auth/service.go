package auth

import (
	"errors"
	"time"
)

// ErrInvalidToken is the only failure Resolve reports. Missing, expired,
// malformed, and badly signed tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Issuer converts a verified identity into a signed, time-limited session
// token and back. Stateless; the signing secret is injected so it can be
// rotated or replaced in tests.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds a session issuer from a signing secret and validity window.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the issuer's time source. Test hook.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs a token bound to identityID, valid until the returned instant.
func (i *Issuer) Issue(identityID string) (string, time.Time, error) {
	issued := i.now()
	exp := issued.Add(i.ttl)
	claims := map[string]any{
		"sub": identityID,
		"iat": issued.Unix(),
		"exp": exp.Unix(),
	}
	token, err := SignHS256(claims, i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Resolve verifies the token and returns the bound identity id. Signature
// expiry is authoritative regardless of how long the delivery artifact (the
// cookie) lives.
func (i *Issuer) Resolve(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	claims, err := ParseAndVerifyHS256(token, i.secret)
	if err != nil {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	expFloat, ok := claims["exp"].(float64)
	if !ok || i.now().Unix() >= int64(expFloat) {
		return "", ErrInvalidToken
	}
	return sub, nil
}
