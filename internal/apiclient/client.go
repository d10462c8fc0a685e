// Package apiclient talks to the game backend. Every failure is an *Error
// classified by Kind.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Retries applies to GET /player transport failures only.
	Retries int
}

type Client struct {
	baseURL string
	bearer  *bearer
	authed  *http.Client
	anon    *http.Client
	timeout time.Duration
	retries int
	logger  *slog.Logger
}

// bearer is a token source whose token can be replaced or dropped.
type bearer struct {
	mu    sync.RWMutex
	token string
}

func (b *bearer) Token() (*oauth2.Token, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.token == "" {
		return nil, fmt.Errorf("no bearer token")
	}
	return &oauth2.Token{AccessToken: b.token, TokenType: "Bearer"}, nil
}

func (b *bearer) get() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

func (b *bearer) set(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

// New builds a client that sends Token as a bearer credential. base is the
// underlying transport; nil means http.DefaultTransport.
func New(cfg Config, base http.RoundTripper) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if base == nil {
		base = http.DefaultTransport
	}

	src := &bearer{token: cfg.Token}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		bearer:  src,
		authed:  &http.Client{Transport: &oauth2.Transport{Source: src, Base: base}},
		anon:    &http.Client{Transport: base},
		timeout: cfg.Timeout,
		retries: max(0, cfg.Retries),
		logger:  slog.With("component", "apiclient"),
	}
}

// SetToken replaces the bearer credential. An empty token sends requests
// without Authorization.
func (c *Client) SetToken(token string) {
	c.bearer.set(token)
}

func (c *Client) httpClient() *http.Client {
	if c.bearer.get() == "" {
		return c.anon
	}
	return c.authed
}

func (c *Client) Player(ctx context.Context) (PlayerSnapshot, error) {
	logger := c.logger.With("operation", "get_player")

	var body []byte
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		body, err = c.do(ctx, http.MethodGet, "/player", nil)
		if err == nil || KindOf(err) != KindTransport || ctx.Err() != nil {
			break
		}
		logger.Debug("Retrying player fetch", "attempt", attempt+1, "error", err)
	}
	if err != nil {
		return PlayerSnapshot{}, err
	}

	snap, decodeErr := DecodeSnapshot(body)
	if decodeErr != nil {
		logger.Warn("Failed to decode player snapshot", "error", decodeErr)
		return PlayerSnapshot{}, &Error{Kind: KindInvalidData, Status: http.StatusOK, Message: "Invalid server data", Err: decodeErr}
	}
	if !snap.Valid() {
		logger.Warn("Player snapshot had invalid fields", "problems", snap.Problems)
	}
	return snap, nil
}

func (c *Client) CollectGold(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, "/player/collect-gold", nil)
}

func (c *Client) HireGoblin(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, "/player/hire-goblin", nil)
}

func (c *Client) SendMinions(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, "/player/send-minions", nil)
}

func (c *Client) ExploreRuins(ctx context.Context, ruinID, explorationType string) (ActionResponse, error) {
	return c.action(ctx, "/player/explore-ruins", map[string]string{
		"ruin_id":          ruinID,
		"exploration_type": explorationType,
	})
}

func (c *Client) Prestige(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, "/player/prestige", nil)
}

func (c *Client) action(ctx context.Context, path string, payload any) (ActionResponse, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return ActionResponse{}, err
	}

	var resp ActionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ActionResponse{}, &Error{Kind: KindInvalidData, Status: http.StatusOK, Message: "Invalid server data", Err: err}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Action rejected"
		}
		return resp, &Error{Kind: KindRejected, Status: http.StatusOK, Message: msg}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	logger := c.logger.With("method", method, "path", path)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "Failed to encode request", Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		logger.Debug("Request failed", "error", err)
		return nil, &Error{Kind: KindTransport, Message: "Network error", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "Failed to read response", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(resp.StatusCode, body)
}

func classify(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: msg, LoginURL: eb.LoginURL}
	case status >= 500:
		return &Error{Kind: KindTransport, Status: status, Message: msg, Err: fmt.Errorf("server returned status %d", status)}
	case eb.ErrorType == "rejected" || eb.ErrorType == "not_found" || eb.ErrorType == "conflict":
		return &Error{Kind: KindRejected, Status: status, Message: msg}
	default:
		return &Error{Kind: KindValidation, Status: status, Message: msg}
	}
}
