// Package leakosint implements the upstream.Client against the LeakOSINT
// HTTP API.
package leakosint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ametow/leakgate/internal/domain"
	"github.com/ametow/leakgate/internal/upstream"
)

type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://leakosintapi.com/"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		token:   cfg.Token,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// payload is the upstream wire format. The token comes from server-side
// configuration only and must never be logged or echoed back.
type payload struct {
	Token   string `json:"token"`
	Request string `json:"request"`
	Limit   int    `json:"limit"`
	Lang    string `json:"lang"`
	Type    string `json:"type"`
}

// Search performs exactly one POST against the upstream API. There are no
// retries: on transport failure the call reports domain.ErrUpstreamUnavailable
// and the inbound request fails.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*upstream.Result, error) {
	body, err := json.Marshal(payload{
		Token:   c.token,
		Request: req.Query,
		Limit:   req.Limit,
		Lang:    req.Lang,
		Type:    req.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling upstream",
		zap.Int("limit", req.Limit),
		zap.String("lang", req.Lang),
	)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream returned non-success status",
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewUpstreamStatusError(resp.StatusCode, string(respBody))
	}

	var raw any
	if err := json.Unmarshal(respBody, &raw); err != nil {
		// a non-JSON success body degrades to a raw-text result instead
		// of failing the whole request
		return &upstream.Result{Text: string(respBody)}, nil
	}

	return &upstream.Result{Raw: raw, JSON: true}, nil
}
