// Package apiclient forwards calls to the remote church APIs, selected by
// routing key.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	common_models "chums-admin/internal/common/models"
	"chums-admin/internal/config"
	"chums-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownApi is returned when no base URL is configured for a routing key.
var ErrUnknownApi = errors.New("no base url configured for api")

// APIError is a non-2xx response from a remote API.
type APIError struct {
	Api        config.ApiName
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s %s: status %d: %s", e.Api, e.Method, e.Path, e.StatusCode, e.Body)
}

// Client is the transport every feature repository uses.
type Client interface {
	Get(ctx context.Context, api config.ApiName, path string, out any) error
	Post(ctx context.Context, api config.ApiName, path string, body any, out any) error
	Delete(ctx context.Context, api config.ApiName, path string) error
	Ping(ctx context.Context, api config.ApiName) error
}

type HTTPClient struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
}

func NewClient(cfg *config.Config, logger *zap.Logger, metrics *Metrics) Client {
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		logger:     logger,
		metrics:    metrics,
	}
}

func (c *HTTPClient) Get(ctx context.Context, api config.ApiName, path string, out any) error {
	return c.do(ctx, api, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Post(ctx context.Context, api config.ApiName, path string, body any, out any) error {
	return c.do(ctx, api, http.MethodPost, path, body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, api config.ApiName, path string) error {
	return c.do(ctx, api, http.MethodDelete, path, nil, nil)
}

// Ping treats any response below 500 as reachable.
func (c *HTTPClient) Ping(ctx context.Context, api config.ApiName) error {
	err := c.do(ctx, api, http.MethodGet, "/", nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}

func (c *HTTPClient) do(ctx context.Context, api config.ApiName, method, path string, body any, out any) error {
	base, ok := c.cfg.APIURL(api)
	if !ok || base == "" {
		return fmt.Errorf("%w: %s", ErrUnknownApi, api)
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if token := tokenFor(ctx, api); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(api, method, "error", time.Since(start))
		return fmt.Errorf("execute %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.metrics.Observe(api, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("remote api error",
			zap.String("api", string(api)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &APIError{Api: api, Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}

// tokenFor prefers the token issued for api and falls back to the session token.
func tokenFor(ctx context.Context, api config.ApiName) string {
	claims := utils.ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	if t, ok := claims.TokenFor(string(api)); ok {
		return t
	}
	return claims.Raw
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(common_models.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
