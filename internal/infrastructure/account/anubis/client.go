package anubis

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/riskibarqy/race-tipping/internal/platform/resilience"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

const (
	defaultPrincipalCacheTTL = 30 * time.Second
	principalCacheMaxEntries = 10000
)

var (
	errAnubisTransient = crerr.New("anubis transient failure")
	json               = jsoniter.ConfigCompatibleWithStandardLibrary
)

type CircuitBreakerConfig = resilience.CircuitBreakerConfig

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CircuitBreaker CircuitBreakerConfig
}

// Client verifies access tokens against the account service introspection endpoint.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	guard         *resilience.Guard
	principals    *cache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 5 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultPrincipalCacheTTL
	}
	var principals *cache.Store
	if ttl > 0 {
		principals = cache.NewStore(ttl, cache.WithMaxEntries(principalCacheMaxEntries))
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		guard:         resilience.NewGuard(cfg.CircuitBreaker),
		principals:    principals,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cachedPrincipal(ctx, cacheKey); ok {
		return principal, nil
	}

	var decoded introspectResponse
	err := c.guard.Do(func() error {
		var callErr error
		decoded, callErr = c.introspect(ctx, token)
		return callErr
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.guard.State())
			return user.Principal{}, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
		}
		return user.Principal{}, err
	}

	principal, err := decoded.principal()
	if err != nil {
		return user.Principal{}, err
	}

	if c.principals != nil {
		// A cached principal never outlives its token.
		var tokenExpiresAt time.Time
		if decoded.Exp > 0 {
			tokenExpiresAt = time.Unix(decoded.Exp, 0)
		}
		c.principals.SetUntil(ctx, cacheKey, principal, tokenExpiresAt)
	}

	return principal, nil
}

func (c *Client) cachedPrincipal(ctx context.Context, key string) (user.Principal, bool) {
	if c.principals == nil {
		return user.Principal{}, false
	}
	raw, ok := c.principals.Get(ctx, key)
	if !ok {
		return user.Principal{}, false
	}
	principal, ok := raw.(user.Principal)
	return principal, ok
}

func (c *Client) introspect(ctx context.Context, token string) (introspectResponse, error) {
	encoded, err := json.Marshal(introspectRequest{Token: token})
	if err != nil {
		return introspectResponse{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return introspectResponse{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return introspectResponse{}, fmt.Errorf("%w: %w: request introspection to anubis: %v", usecase.ErrDependencyUnavailable, errAnubisTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return introspectResponse{}, fmt.Errorf("%w: %w: read introspect response: %v", usecase.ErrDependencyUnavailable, errAnubisTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case isRetryableStatus(resp.StatusCode):
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", resp.StatusCode)
		return introspectResponse{}, fmt.Errorf("%w: %w: status %d", usecase.ErrDependencyUnavailable, errAnubisTransient, resp.StatusCode)
	default:
		// 401/403 here mean our admin key was refused, not the user's token.
		c.logger.ErrorContext(ctx, "anubis introspection rejected", "status_code", resp.StatusCode)
		return introspectResponse{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return introspectResponse{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	return decoded, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Exp      int64  `json:"exp"`
}

func (r introspectResponse) principal() (user.Principal, error) {
	if !r.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(r.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	rawRole := r.Role
	if strings.TrimSpace(rawRole) == "" {
		rawRole = string(user.RolePlayer)
	}
	role, err := user.ParseRole(rawRole)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrUnauthorized, err)
	}

	return user.Principal{
		UserID:   r.UserID,
		Email:    strings.TrimSpace(r.Email),
		Username: strings.TrimSpace(r.Username),
		Role:     role,
	}, nil
}
