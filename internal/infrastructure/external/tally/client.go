// Package tally implements the ledger gateway against Tally Prime's
// XML-over-HTTP interface. Tally listens on a single endpoint and answers
// request envelopes posted to it; there is no session state.
//
// The desk machine running Tally is switched off outside business hours, so
// every call here treats transport failure and timeout the same way: the
// gateway is not connected right now.
package tally

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

// Config holds the gateway connection settings
type Config struct {
	// BaseURL is the Tally HTTP endpoint, e.g. http://localhost:9000
	BaseURL string

	// CompanyName selects the company when Tally has several loaded
	CompanyName string

	// TargetBook is the voucher type cheques are imported under
	TargetBook string

	// CheckTimeout bounds the connectivity probe
	CheckTimeout time.Duration

	// RequestTimeout bounds import and export calls
	RequestTimeout time.Duration
}

// Client talks to a Tally Prime instance
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Tally client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 3 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// CheckConnection probes the endpoint with a bounded timeout. Tally answers
// a bare GET on its port with a short status page; anything else, including
// a timeout, means not connected.
func (c *Client) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Tally connectivity check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// post sends a request envelope and returns the raw response body. Transport
// errors come back as the gateway-unavailable sentinel.
func (c *Client) post(ctx context.Context, envelope []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("failed to build tally request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Tally request failed", zap.Error(err))
		return nil, errs.GatewayUnavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.GatewayUnavailable(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.GatewayUnavailable(fmt.Errorf("tally returned status %d", resp.StatusCode))
	}
	return body, nil
}
