// Package websiteapi provides the HTTP client for the website leads API:
// credential exchange, token lifecycle, and bounded paginated lead fetches.
package websiteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventcrm_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

const (
	loginPath = "/admin/login"
	leadsPath = "/admin/leads"

	defaultPageSize = 100
	defaultTimeout  = 15 * time.Second
	defaultTokenTTL = 60 * time.Minute

	// maxTotalLeads caps a full fetch so a misbehaving upstream that never
	// signals exhaustion cannot make us loop forever.
	maxTotalLeads = 1000
)

// Config configures the website API client.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	TokenTTL time.Duration
}

// Client is the HTTP client for the website leads API. Token state is owned
// per client instance so independent pipelines can coexist; refresh is
// single-flighted so concurrent callers observing an expired token trigger
// exactly one login.
type Client struct {
	baseURL    string
	username   string
	password   string
	tokenTTL   time.Duration
	httpClient *http.Client
	log        *logger.Logger

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	loginGroup singleflight.Group
	now        func() time.Time
}

// New creates a new website API client.
func New(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	tokenTTL := cfg.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = defaultTokenTTL
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		tokenTTL:   tokenTTL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		now:        time.Now,
	}
}

// Authenticate exchanges the configured credentials for a fresh bearer token
// and stores it with its expiry. Always performs a login call; callers that
// only need a valid token should use EnsureAuthenticated.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	token, err, _ := c.loginGroup.Do("login", func() (interface{}, error) {
		return c.login(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (c *Client) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", &AuthenticationError{Message: "encode credentials", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", &AuthenticationError{Message: "create login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("login", err)
		if isTimeout(err) {
			return "", &TimeoutError{Op: "login", Err: err}
		}
		return "", &AuthenticationError{Message: "login request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := readUpstreamMessage(resp.Body)
		c.log.UpstreamError("login", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
		return "", &AuthenticationError{Message: msg}
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return "", &AuthenticationError{Message: "decode login response", Err: err}
	}
	if login.Token == "" {
		return "", &AuthenticationError{Message: "no token received from authentication"}
	}

	c.setToken(login.Token)
	return login.Token, nil
}

// EnsureAuthenticated returns the cached token while it is still valid, and
// authenticates otherwise.
func (c *Client) EnsureAuthenticated(ctx context.Context) (string, error) {
	if token, ok := c.validToken(); ok {
		return token, nil
	}
	return c.Authenticate(ctx)
}

func (c *Client) validToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || c.expiresAt.IsZero() {
		return "", false
	}
	if !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.expiresAt = c.now().Add(c.tokenTTL)
	c.mu.Unlock()
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// FetchPage fetches a single page of leads and filters it to records with
// id >= minID (the upstream API has no server-side floor filter). On a 401 it
// re-authenticates exactly once and retries the same page once; a second 401
// is returned as an AuthenticationError.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int, minID int64) ([]Lead, error) {
	filtered, _, err := c.fetchPage(ctx, page, pageSize, minID)
	return filtered, err
}

// fetchPage additionally reports the raw (pre-filter) page length, which is
// the pagination exhaustion signal: the floor filter can shorten a page that
// the upstream actually filled.
func (c *Client) fetchPage(ctx context.Context, page, pageSize int, minID int64) ([]Lead, int, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	token, err := c.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, 0, err
	}

	leads, status, err := c.requestLeads(ctx, token, page, pageSize)
	if status == http.StatusUnauthorized {
		c.invalidateToken()
		token, err = c.Authenticate(ctx)
		if err != nil {
			return nil, 0, err
		}
		leads, status, err = c.requestLeads(ctx, token, page, pageSize)
		if status == http.StatusUnauthorized {
			return nil, 0, &AuthenticationError{Message: "token rejected after refresh"}
		}
	}
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.ID >= minID {
			filtered = append(filtered, lead)
		}
	}

	c.log.UpstreamEvent("fetch_page", page, len(filtered))
	return filtered, len(leads), nil
}

func (c *Client) requestLeads(ctx context.Context, token string, page, pageSize int) ([]Lead, int, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+leadsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, &FetchError{Message: "create leads request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("auth_token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("fetch_leads", err)
		if isTimeout(err) {
			return nil, 0, &TimeoutError{Op: "fetch_leads", Err: err}
		}
		return nil, 0, &FetchError{Message: "leads request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, http.StatusUnauthorized, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := readUpstreamMessage(resp.Body)
		c.log.UpstreamError("fetch_leads", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
		return nil, resp.StatusCode, &FetchError{StatusCode: resp.StatusCode, Message: msg}
	}

	var envelope leadsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, resp.StatusCode, &FetchError{StatusCode: resp.StatusCode, Message: "decode leads response", Err: err}
	}
	if envelope.Status != http.StatusOK {
		msg := envelope.Message
		if msg == "" {
			msg = "unknown upstream error"
		}
		return nil, resp.StatusCode, &FetchError{StatusCode: envelope.Status, Message: msg}
	}

	leads := make([]Lead, 0, len(envelope.Data.LeadsList))
	for _, raw := range envelope.Data.LeadsList {
		leads = append(leads, raw.toLead())
	}
	return leads, resp.StatusCode, nil
}

// FetchAll pages through the leads endpoint serially, accumulating records
// with id >= minID. It stops when a page comes back shorter than the requested
// page size, or when maxTotalLeads records have accumulated, whichever comes
// first.
func (c *Client) FetchAll(ctx context.Context, minID int64) ([]Lead, error) {
	var all []Lead

	for page := 1; ; page++ {
		leads, rawCount, err := c.fetchPage(ctx, page, defaultPageSize, minID)
		if err != nil {
			return nil, err
		}

		all = append(all, leads...)
		if len(all) >= maxTotalLeads {
			all = all[:maxTotalLeads]
			break
		}
		if rawCount < defaultPageSize {
			break
		}
	}

	c.log.UpstreamEvent("fetch_all", 0, len(all))
	return all, nil
}

func isTimeout(err error) bool {
	return os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}

func readUpstreamMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "upstream request rejected"
	}
	return trimmed
}
