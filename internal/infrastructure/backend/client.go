// Package backend is the REST client for the external turnos backend.
//
// Every call goes through a circuit breaker so that a backend outage fails
// fast instead of piling up requests. Calls are never retried.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/dcic-turnos/turnos-web/internal/api/metrics"
	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 64 << 10
	breakerFailures = 5
)

// Config captures the settings of the REST client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the backend. It implements ports.Backend.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// New builds a Client. A default timeout is applied when none is provided.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	openFor := cfg.BreakerTimeout
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "backend",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		// Only transport failures and 5xx answers count against the backend.
		// A caller that gave up is not the backend's fault.
		IsSuccessful: func(err error) bool {
			var re *domain.RemoteError
			if errors.As(err, &re) {
				return re.Status < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BackendBreakerState.Set(float64(to))
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("backend breaker state changed")
		},
	})
	return c
}

type tokenKey struct{}

// WithToken returns a context whose backend calls carry token as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Ping issues a cheap read used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/salas", "GET /salas", nil, nil)
}

// do sends one request. endpoint is the route template used as metric label.
// A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, path, endpoint, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "open").Inc()
		return fmt.Errorf("%s: %w", endpoint, domain.ErrBackendUnavailable)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := tokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			metrics.BackendRequestsTotal.WithLabelValues(endpoint, "canceled").Inc()
			return fmt.Errorf("%s: %w", endpoint, ctxErr)
		}
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("backend request failed")
		return fmt.Errorf("%s: %w", endpoint, domain.ErrBackendUnreachable)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := decodeError(resp)
		c.log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Str("message", remote.Message).Msg("backend rejected request")
		return remote
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// decodeError reads the backend error envelope. The backend is inconsistent:
// message may arrive as "message", "mensaje" or "error", and field errors as
// arrays or single strings.
func decodeError(resp *http.Response) *domain.RemoteError {
	remote := &domain.RemoteError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &envelope) != nil {
		if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 300 {
			remote.Message = text
		}
		return remote
	}

	for _, key := range []string{"message", "mensaje", "error", "detail"} {
		if msg, ok := envelope[key].(string); ok && msg != "" {
			remote.Message = msg
			break
		}
	}

	if fields, ok := envelope["errors"].(map[string]any); ok {
		remote.Fields = domain.FieldErrors{}
		for field, v := range fields {
			switch msgs := v.(type) {
			case string:
				remote.Fields.Add(field, msgs)
			case []any:
				for _, m := range msgs {
					if s, ok := m.(string); ok {
						remote.Fields.Add(field, s)
					}
				}
			}
		}
	}
	return remote
}
