// Package client holds the HTTP clients one service uses to call another.
// Every request carries a service token for the callee.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kbhub/txledger/pkg/domain"
	"github.com/kbhub/txledger/pkg/servicetoken"
)

const maxErrorBody = 64 << 10

// envelope mirrors the success response of every service.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ProblemError is a non-2xx response from a downstream service. Body keeps
// the raw problem document so it can be relayed unchanged.
type ProblemError struct {
	Service    string
	StatusCode int
	Title      string
	Detail     string
	Body       []byte
	cause      error
}

func (e *ProblemError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.StatusCode, msg)
}

// Unwrap exposes the domain error matching the status code, if any.
func (e *ProblemError) Unwrap() error { return e.cause }

// statusErrors maps downstream status codes to domain errors.
type statusErrors map[int]error

var defaultStatusErrors = statusErrors{
	http.StatusBadRequest:   domain.ErrValidation,
	http.StatusUnauthorized: domain.ErrUnauthorized,
	http.StatusForbidden:    domain.ErrForbidden,
	http.StatusNotFound:     domain.ErrNotFound,
	http.StatusConflict:     domain.ErrAlreadyExists,
}

type base struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newBase(service, baseURL string, source *servicetoken.Source, timeout time.Duration, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: servicetoken.NewTransport(source, nil),
		},
		logger: logger.With("client", service),
	}
}

// do sends body as JSON and decodes the data field of the success envelope
// into out. Non-2xx responses become *ProblemError.
func (b *base) do(ctx context.Context, method, path string, body, out any, overrides statusErrors) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Error("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s unavailable: %w", b.service, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	b.logger.Debug("request completed",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return b.problem(resp, overrides)
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%s returned an empty response", b.service)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (b *base) problem(resp *http.Response, overrides statusErrors) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	pe := &ProblemError{
		Service:    b.service,
		StatusCode: resp.StatusCode,
		Body:       raw,
	}
	var pd struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &pd) == nil {
		pe.Title, pe.Detail = pd.Title, pd.Detail
	}
	if cause, ok := overrides[resp.StatusCode]; ok {
		pe.cause = cause
	} else {
		pe.cause = defaultStatusErrors[resp.StatusCode]
	}
	b.logger.Warn("downstream problem", "status", pe.StatusCode, "title", pe.Title)
	return pe
}
