// Package servicetoken issues the short-lived HS256 credentials services
// present to each other and authorizes their claims.
package servicetoken

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kbhub/txledger/pkg/domain"
)

var (
	ErrMissingToken      = fmt.Errorf("%w: missing service token", domain.ErrUnauthorized)
	ErrInvalidToken      = fmt.Errorf("%w: invalid service token", domain.ErrUnauthorized)
	ErrServiceNotAllowed = fmt.Errorf("%w: calling service is not allowed", domain.ErrForbidden)
)

// Claims carried by a service token. Subject and Issuer name the calling
// service; Audience names the service being called.
type Claims struct {
	jwt.RegisteredClaims
}

// Service returns the calling service name.
func (c *Claims) Service() string {
	return c.Subject
}

// Issuer mints tokens on behalf of one service.
type Issuer struct {
	service string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewIssuer creates an Issuer for service signing with secret.
func NewIssuer(service string, secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{service: service, secret: secret, ttl: ttl, now: time.Now}
}

// Service returns the name tokens are issued for.
func (i *Issuer) Service() string { return i.service }

// Issue returns a signed token addressed to audience and its expiry.
func (i *Issuer) Issue(audience string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   i.service,
		Issuer:    i.service,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign service token: %w", err)
	}
	return signed, exp, nil
}

// Verifier validates tokens presented to one service.
type Verifier struct {
	audience string
	secret   []byte
	allowed  []string
}

// NewVerifier creates a Verifier for the service named audience. Only tokens
// whose subject is in allowed are accepted.
func NewVerifier(audience string, secret []byte, allowed []string) *Verifier {
	return &Verifier{audience: audience, secret: secret, allowed: slices.Clone(allowed)}
}

// Secret returns the HMAC key used for signature checks.
func (v *Verifier) Secret() []byte { return v.secret }

// Authorize applies the checks that follow a successful signature
// verification by the ServiceAuth middleware: an expiry must be present, the
// audience must name this service and the subject must be allow-listed.
func (v *Verifier) Authorize(claims *Claims) error {
	if claims == nil {
		return ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, jwt.ErrTokenRequiredClaimMissing)
	}
	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return fmt.Errorf("%w: %v", ErrInvalidToken, jwt.ErrTokenInvalidAudience)
	}
	if claims.Subject == "" || !slices.Contains(v.allowed, claims.Subject) {
		return ErrServiceNotAllowed
	}
	return nil
}

// IsUnauthorized reports whether err is a credential failure rather than a
// permission failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
