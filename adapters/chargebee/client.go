// Package chargebee is the REST client for the Chargebee v2 API.
// It implements billing.API and maps transport and HTTP failures onto the
// project's error types.
package chargebee

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	cperrors "chargebee-prices/internal/errors"
	"chargebee-prices/internal/logging"
)

// DefaultCACertPath is the corporate CA bundle loaded when present
const DefaultCACertPath = "/usr/local/share/ca-certificates/CertEmulationCA.crt"

// DefaultTimeout bounds a single API request
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// Config configures the client
type Config struct {
	// Site is the Chargebee site name ({site}.chargebee.com)
	Site string

	// APIKey is sent as the basic auth user name
	APIKey string

	// BaseURL overrides the site-derived endpoint
	BaseURL string

	// CACertPath is an extra PEM bundle to trust. An unreadable file is
	// logged and ignored.
	CACertPath string

	InsecureSkipVerify bool

	Timeout time.Duration
}

// DefaultConfig returns production defaults
func DefaultConfig() *Config {
	return &Config{
		CACertPath: DefaultCACertPath,
		Timeout:    DefaultTimeout,
	}
}

// Client talks to one Chargebee site
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

var _ billing.API = (*Client)(nil)

// New creates a client. Either Site or BaseURL must be set.
func New(cfg *Config, log *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log = logging.Or(log)

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		if cfg.Site == "" {
			return nil, cperrors.Config("chargebee site is required", nil)
		}
		base = fmt.Sprintf("https://%s.chargebee.com/api/v2", cfg.Site)
	}
	if cfg.APIKey == "" {
		return nil, cperrors.Config("chargebee api key is required", nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig(cfg, log)

	log.Debug("Chargebee client configured",
		zap.String("base_url", base),
		zap.Duration("timeout", timeout),
		zap.Bool("insecure_skip_verify", cfg.InsecureSkipVerify),
	)

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    base,
		apiKey:     cfg.APIKey,
		log:        log,
	}, nil
}

func tlsConfig(cfg *Config, log *zap.Logger) *tls.Config {
	tc := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}
	if cfg.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled")
	}
	if cfg.CACertPath == "" {
		return tc
	}

	pem, err := os.ReadFile(cfg.CACertPath)
	if err != nil {
		log.Warn("Could not load CA certificate, using system roots",
			zap.String("path", cfg.CACertPath),
			zap.Error(err),
		)
		return tc
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		log.Warn("CA certificate file contains no usable certificates", zap.String("path", cfg.CACertPath))
		return tc
	}
	tc.RootCAs = pool
	log.Debug("Loaded CA certificate", zap.String("path", cfg.CACertPath))
	return tc
}

// RetrieveFamily implements billing.API
func (c *Client) RetrieveFamily(ctx context.Context, familyID string) (*billing.Family, error) {
	var resp struct {
		ItemFamily *billing.Family `json:"item_family"`
	}
	if err := c.get(ctx, "item_family", "/item_families/"+url.PathEscape(familyID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ItemFamily == nil {
		return nil, cperrors.NotFound("item_family", familyID)
	}
	return resp.ItemFamily, nil
}

// RetrieveItem implements billing.API
func (c *Client) RetrieveItem(ctx context.Context, itemID string) (*billing.RawItem, error) {
	var resp struct {
		Item *billing.RawItem `json:"item"`
	}
	if err := c.get(ctx, "item", "/items/"+url.PathEscape(itemID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, cperrors.NotFound("item", itemID)
	}
	return resp.Item, nil
}

// ListItems implements billing.API
func (c *Client) ListItems(ctx context.Context, req billing.ListItemsRequest) (*billing.ItemPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("item_family_id[is]", req.FamilyID)
	if req.Offset != "" {
		q.Set("offset", req.Offset)
	}

	items, next, err := list[billing.RawItem](ctx, c, "item", "/items", q)
	if err != nil {
		return nil, err
	}
	return &billing.ItemPage{Items: items, NextOffset: next}, nil
}

// ListItemPrices implements billing.API
func (c *Client) ListItemPrices(ctx context.Context, itemID string, limit int) ([]billing.RawItemPrice, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("item_id[is]", itemID)

	prices, _, err := list[billing.RawItemPrice](ctx, c, "item_price", "/item_prices", q)
	return prices, err
}

// ListDifferentialPrices implements billing.API
func (c *Client) ListDifferentialPrices(ctx context.Context, itemPriceID string, limit int) ([]billing.RawDifferentialPrice, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("item_price_id[is]", itemPriceID)

	diffs, _, err := list[billing.RawDifferentialPrice](ctx, c, "differential_price", "/differential_prices", q)
	return diffs, err
}

// ListItemsByTypeAndID implements billing.API
func (c *Client) ListItemsByTypeAndID(ctx context.Context, itemID, itemType string, limit int) ([]billing.RawItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("id[is]", itemID)
	q.Set("type[is]", itemType)

	items, _, err := list[billing.RawItem](ctx, c, "item", "/items", q)
	return items, err
}

// ListCoupons implements billing.API
func (c *Client) ListCoupons(ctx context.Context, status string, limit int) ([]billing.RawCoupon, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if status != "" {
		q.Set("status[is]", status)
	}

	coupons, _, err := list[billing.RawCoupon](ctx, c, "coupon", "/coupons", q)
	return coupons, err
}

// listEnvelope is the shape of every list response: each entry wraps the
// record under its resource name.
type listEnvelope struct {
	List       []map[string]json.RawMessage `json:"list"`
	NextOffset string                       `json:"next_offset"`
}

func list[T any](ctx context.Context, c *Client, resource, path string, q url.Values) ([]T, string, error) {
	var env listEnvelope
	if err := c.get(ctx, resource, path, q, &env); err != nil {
		return nil, "", err
	}

	out := make([]T, 0, len(env.List))
	for i, entry := range env.List {
		raw, ok := entry[resource]
		if !ok {
			c.log.Debug("Skipping list entry without resource",
				zap.String("resource", resource),
				zap.Int("index", i),
			)
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, "", cperrors.Billing(fmt.Sprintf("decode %s list entry %d", resource, i), err)
		}
		out = append(out, v)
	}
	return out, env.NextOffset, nil
}

// apiError is the error body returned by Chargebee
type apiError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	APIErrorCode string `json:"api_error_code"`
	ErrorCode    string `json:"error_code"`
}

func (c *Client) get(ctx context.Context, resource, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return cperrors.Internal(fmt.Sprintf("build %s request", resource), err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return cperrors.Network(fmt.Sprintf("request %s", path), err)
	}
	defer resp.Body.Close()

	c.log.Debug("Chargebee response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp, resource, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return cperrors.Billing(fmt.Sprintf("decode %s response", resource), err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response, resource, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr apiError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	if resp.StatusCode == http.StatusNotFound {
		id := path[strings.LastIndex(path, "/")+1:]
		if unescaped, err := url.PathUnescape(id); err == nil {
			id = unescaped
		}
		return cperrors.NotFound(resource, id).WithContext("message", msg)
	}

	e := cperrors.Billing(fmt.Sprintf("%s returned status %d: %s", path, resp.StatusCode, msg), nil).
		WithContext("status", resp.StatusCode)
	if apiErr.APIErrorCode != "" {
		e = e.WithContext("api_error_code", apiErr.APIErrorCode)
	}
	return e
}
