package servicetoken

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const refreshSkew = 30 * time.Second

// Source hands out a cached token for one audience and re-issues it shortly
// before expiry. Concurrent refreshes are coalesced.
type Source struct {
	issuer   *Issuer
	audience string

	mu      sync.RWMutex
	token   string
	expires time.Time
	group   singleflight.Group
}

// NewSource creates a Source of tokens addressed to audience.
func NewSource(issuer *Issuer, audience string) *Source {
	return &Source{issuer: issuer, audience: audience}
}

// Token returns a valid token, issuing a new one when needed.
func (s *Source) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	token, expires := s.token, s.expires
	s.mu.RUnlock()
	if token != "" && s.issuer.now().Add(refreshSkew).Before(expires) {
		return token, nil
	}

	v, err, _ := s.group.Do(s.audience, func() (any, error) {
		token, expires, err := s.issuer.Issue(s.audience)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.token, s.expires = token, expires
		s.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
