package anubis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hr-admin/internal/domain/role"
	"github.com/riskibarqy/hr-admin/internal/domain/user"
	"github.com/riskibarqy/hr-admin/internal/platform/cache"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/platform/resilience"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

var errAnubisTransient = crerr.New("anubis transient failure")

const (
	defaultTimeout  = 5 * time.Second
	defaultCacheTTL = 30 * time.Second
	maxResponseBody = 1 << 20
)

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CircuitBreaker resilience.Config
}

// Client resolves access tokens to principals through the Anubis
// introspection endpoint. Active tokens are cached by their hash.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	principals    *cache.Store[user.Principal]
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		principals:    cache.NewStore[user.Principal](ttl),
		breaker:       resilience.NewCircuitBreaker("anubis", cfg.CircuitBreaker),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.principals.Get(key); ok {
		return principal, nil
	}

	var principal user.Principal
	call := func() error {
		var err error
		principal, err = c.introspect(ctx, token)
		return err
	}

	err := c.breaker.Execute(call, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}
	if err != nil {
		return user.Principal{}, err
	}

	c.principals.Set(key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w: request introspection: %w", usecase.ErrDependencyUnavailable, errAnubisTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w: read introspect response: %w", usecase.ErrDependencyUnavailable, errAnubisTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// 403 means our admin key was refused, not the caller's token.
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected admin key", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: %w: status %d", usecase.ErrDependencyUnavailable, errAnubisTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("%w: decode introspect response: %w", usecase.ErrDependencyUnavailable, err)
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("%w: introspect response has empty user_id", usecase.ErrDependencyUnavailable)
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		Role:   highestRole(decoded.Roles),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// highestRole picks the most privileged known role. Unknown names are
// ignored; a token without any known role yields the zero Role.
func highestRole(raw []string) role.Role {
	granted := make(map[role.Role]bool, len(raw))
	for _, name := range raw {
		if r, err := role.Parse(name); err == nil {
			granted[r] = true
		}
	}
	for _, r := range role.All() {
		if granted[r] {
			return r
		}
	}
	return ""
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errAnubisTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
