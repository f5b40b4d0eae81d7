// Package backend implementa los puertos de persistencia contra la API REST del backend SmartWMS.
// El backend es dueño del catálogo, las transacciones, los traslados y las sesiones finalizadas.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/pkg/jwt"
)

// TokenSource origen del token bearer; Clear cierra la sesión tras un 401.
// session.Context lo implementa.
type TokenSource interface {
	Token() string
	Clear() error
}

type tokenKey struct{}

// WithToken fija el token de la petición entrante; tiene prioridad sobre TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}

// APIError respuesta no exitosa del backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return domain.ErrExternal
}

// Options ajustes del cliente.
type Options struct {
	Timeout   time.Duration
	RateLimit float64 // peticiones por segundo; <= 0 sin límite
	Burst     int
	Clock     func() time.Time
}

// Client cliente HTTP del backend con límite de tasa saliente y manejo de 401 centralizado.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	log        zerolog.Logger
	now        func() time.Time
}

// NewClient construye el cliente. tokens puede ser nil si todas las llamadas usan WithToken.
func NewClient(baseURL string, tokens TokenSource, log zerolog.Logger, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		tokens:     tokens,
		log:        log,
		now:        opts.Clock,
	}
}

func (c *Client) token(ctx context.Context) string {
	if t, ok := tokenFrom(ctx); ok {
		return t
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

// unauthorized aplica el cierre de sesión global.
func (c *Client) unauthorized(reason string) error {
	c.log.Warn().Str("reason", reason).Msg("sesión cerrada por el backend")
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.log.Error().Err(err).Msg("limpiar sesión")
		}
	}
	return domain.ErrUnauthorized
}

// do ejecuta method path con in como cuerpo JSON (nil = sin cuerpo) y decodifica en out (nil = descartar).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token := c.token(ctx)
	if token != "" {
		if _, err := jwt.Inspect(token, c.now()); errors.Is(err, jwt.ErrExpired) {
			return c.unauthorized("token expirado")
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: serializar %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("backend: limitador: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("backend: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("backend: %s %s: %v: %w", method, path, err, domain.ErrExternal)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", c.now().Sub(start)).
		Msg("backend")

	if resp.StatusCode == http.StatusUnauthorized {
		return c.unauthorized(fmt.Sprintf("%s %s", method, path))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decodificar %s: %v: %w", path, err, domain.ErrExternal)
	}
	return nil
}
