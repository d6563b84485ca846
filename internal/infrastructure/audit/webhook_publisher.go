package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("audit webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.Config
}

// WebhookPublisher posts audit events as JSON to a single endpoint.
type WebhookPublisher struct {
	client  *http.Client
	url     string
	token   string
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewWebhookPublisher(httpClient *http.Client, cfg WebhookConfig, logger *logging.Logger) (*WebhookPublisher, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid AUDIT_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookPublisher{
		client:  httpClient,
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		logger:  logger,
		breaker: resilience.NewCircuitBreaker("audit-webhook", cfg.CircuitBreaker),
	}, nil
}

func (p *WebhookPublisher) Publish(ctx context.Context, event Event) error {
	err := p.breaker.Execute(func() error { return p.send(ctx, event) }, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "audit webhook circuit breaker rejected request", "state", p.breaker.State())
		return fmt.Errorf("audit webhook is temporarily unavailable: %w", err)
	}
	return err
}

func (p *WebhookPublisher) send(ctx context.Context, event Event) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal audit event")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("audit.webhook_url", p.url),
			attribute.String("audit.event", event.Type),
		)
	}
	p.logger.DebugContext(ctx, "audit webhook request", "event", event.Type, "curl_preview", buildCurlPreview(p.url, string(body), p.token != ""))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create audit webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post audit event %s: %w", errWebhookTransient, event.Type, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post audit event status=%d body=%s", errWebhookTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return crerr.Newf("post audit event status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

func buildCurlPreview(target, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(target))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 2048)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func validateHTTPURL(raw string) (string, error) {
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
	return candidate, nil
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errWebhookTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
