package httpstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/platform/resilience"
)

var errStorageTransient = crerr.New("storage transient failure")

// strictJSON rejects callback bodies carrying anything but the documented fields.
var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

const maxErrorBody = 4096

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.Config
}

// Client uploads objects to the file storage service over HTTP. The service
// answers a successful PUT with {"url": "..."}.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

type putResponse struct {
	URL string `json:"url"`
}

func NewClient(httpClient *fasthttp.Client, cfg Config, logger *logging.Logger) (*Client, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid STORAGE_HTTP_BASE_URL")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     "hr-admin-storage",
			NoDefaultUserAgentHeader: true,
			MaxConnsPerHost:          64,
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		breaker: resilience.NewCircuitBreaker("storage", cfg.CircuitBreaker),
		logger:  logger,
	}, nil
}

func (c *Client) Put(ctx context.Context, object asset.Object) (asset.StoredObject, error) {
	if strings.TrimSpace(object.Key) == "" {
		return asset.StoredObject{}, crerr.New("object key is required")
	}
	if err := ctx.Err(); err != nil {
		return asset.StoredObject{}, fmt.Errorf("%w: %w", asset.ErrStorageUnavailable, err)
	}

	var stored asset.StoredObject
	call := func() error {
		var err error
		stored, err = c.put(ctx, object)
		return err
	}

	err := c.breaker.Execute(call, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "storage circuit breaker rejected request", "state", c.breaker.State())
	}
	if err != nil {
		return asset.StoredObject{}, fmt.Errorf("%w: %w", asset.ErrStorageUnavailable, err)
	}
	return stored, nil
}

func (c *Client) put(ctx context.Context, object asset.Object) (asset.StoredObject, error) {
	target := c.baseURL + "/objects/" + escapeKey(object.Key)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("storage.url", target),
			attribute.Int("storage.size_bytes", len(object.Data)),
		)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodPut)
	req.Header.SetContentType(object.ContentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.SetBodyRaw(object.Data)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return asset.StoredObject{}, fmt.Errorf("%w: put %s: %w", errStorageTransient, object.Key, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.logger.DebugContext(ctx, "storage put completed",
		"key", object.Key,
		"status_code", status,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if status/100 != 2 {
		preview := truncateForLog(strings.TrimSpace(string(body)), maxErrorBody)
		if isRetryableStatus(status) {
			return asset.StoredObject{}, fmt.Errorf("%w: put %s status=%d body=%s", errStorageTransient, object.Key, status, preview)
		}
		return asset.StoredObject{}, crerr.Newf("put %s status=%d body=%s", object.Key, status, preview)
	}

	var decoded putResponse
	if err := strictJSON.Unmarshal(body, &decoded); err != nil {
		return asset.StoredObject{}, crerr.Wrapf(err, "decode storage response for %s", object.Key)
	}
	if strings.TrimSpace(decoded.URL) == "" {
		return asset.StoredObject{}, crerr.Newf("storage response for %s has empty url", object.Key)
	}

	return asset.StoredObject{URL: strings.TrimSpace(decoded.URL)}, nil
}

func escapeKey(key string) string {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errStorageTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
