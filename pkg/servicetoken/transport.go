package servicetoken

import (
	"fmt"
	"net/http"
)

// Transport attaches a service token to every outbound request.
type Transport struct {
	Source *Source
	Base   http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(source *Source, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Source: source, Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("service token: %w", err)
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)
	return t.Base.RoundTrip(out)
}
