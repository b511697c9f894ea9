// Package sheetapi talks to the spreadsheet-backed census web app.
//
// Reads are GET requests with an action query parameter; every response is
// an envelope {result, message, data}. Writes POST the household payload as
// JSON. The web app answers a POST with a redirect to the script output,
// which net/http follows as a GET, so the write result is readable.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/csg33k/household-census/internal/domain"
)

const (
	ActionSummary = "getSummary"
	ActionRecords = "getRecords"
	actionSubmit  = "submit"

	resultSuccess = "success"
	maxBodyBytes  = 32 << 20
)

type Config struct {
	ReadURL  string
	WriteURL string
	// Timeout of zero leaves calls bounded only by their context.
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.WriteURL == "" {
		cfg.WriteURL = cfg.ReadURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type envelope struct {
	Result  string          `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Summary fetches the household/member/child counts.
func (c *Client) Summary(ctx context.Context) (domain.Summary, error) {
	var s domain.Summary
	err := c.get(ctx, ActionSummary, &s)
	return s, err
}

// Records fetches every household record.
func (c *Client) Records(ctx context.Context) ([]domain.Record, error) {
	var records []domain.Record
	if err := c.get(ctx, ActionRecords, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, action string, out any) error {
	if c.cfg.ReadURL == "" {
		return fmt.Errorf("%w: census api url not configured", domain.ErrTransport)
	}
	u, err := url.Parse(c.cfg.ReadURL)
	if err != nil {
		return fmt.Errorf("%w: parse api url: %w", domain.ErrTransport, err)
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: create %s request: %w", domain.ErrTransport, action, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("census api request failed", "action", action, "err", err)
		return fmt.Errorf("%w: %s request: %w", domain.ErrTransport, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("census api bad status", "action", action, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s returned status %d", domain.ErrTransport, action, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrTransport, action, err)
	}
	if env.Result != resultSuccess {
		c.logger.Info("census api reported failure", "action", action, "result", env.Result, "message", env.Message)
		return &domain.APIError{Action: action, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s data: %w", domain.ErrTransport, action, err)
	}
	c.logger.Debug("census api fetched", "action", action, "elapsed", time.Since(start))
	return nil
}

// Submit posts one household payload and reads the outcome back. An empty
// 2xx body counts as success.
func (c *Client) Submit(ctx context.Context, p *domain.Payload) error {
	if c.cfg.WriteURL == "" {
		return fmt.Errorf("%w: census write url not configured", domain.ErrTransport)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WriteURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create submit request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("census submit failed", "err", err)
		return fmt.Errorf("%w: submit request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: submit returned status %d", domain.ErrTransport, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read submit response: %w", domain.ErrTransport, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &domain.APIError{Action: actionSubmit, Message: "unexpected response: " + snippet(raw)}
	}
	switch {
	case env.Result == resultSuccess:
		return nil
	case env.Result == "" && env.Message == "":
		return nil
	default:
		msg := env.Message
		if msg == "" {
			msg = "result " + env.Result
		}
		return &domain.APIError{Action: actionSubmit, Message: msg}
	}
}

func snippet(b []byte) string {
	s := strings.Join(strings.Fields(string(b)), " ")
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
