package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/notedrop/notedrop/internal/airdrop"
)

// Ensure Client implements Source and Pinger at compile time.
var (
	_ Source = (*Client)(nil)
	_ Pinger = (*Client)(nil)
)

// Client talks to a PostgREST-compatible hosted table (Supabase).
type Client struct {
	baseURL   *url.URL
	table     string
	apiKey    string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.Logger
}

// ClientOptions configure NewClient.
type ClientOptions struct {
	BaseURL           string
	APIKey            string
	Table             string
	RequestsPerSecond float64 // zero uses the default; negative disables limiting
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

const (
	DefaultTable      = "airdrop_collections"
	defaultUserAgent  = "notedrop/0.1"
	defaultRPS        = 5
	requestTimeout    = 10 * time.Second
	maxErrorBodyBytes = 512
)

// NewClient builds a Client. A missing URL or key yields ErrNotConfigured.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("backend url is empty: %w", ErrNotConfigured)
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("backend api key is empty: %w", ErrNotConfigured)
	}
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = DefaultTable
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	var limiter *rate.Limiter
	switch rps := opts.RequestsPerSecond; {
	case rps == 0:
		limiter = rate.NewLimiter(rate.Limit(defaultRPS), defaultRPS)
	case rps > 0:
		limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		table:     table,
		apiKey:    strings.TrimSpace(opts.APIKey),
		http:      httpClient,
		limiter:   limiter,
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// List returns one page of records, newest first.
func (c *Client) List(ctx context.Context, page, pageSize int) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	page, pageSize = normalizePaging(page, pageSize)

	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "created_at.desc")
	values.Set("offset", strconv.Itoa((page-1)*pageSize))
	values.Set("limit", strconv.Itoa(pageSize))
	rel := &url.URL{Path: c.tablePath(), RawQuery: values.Encode()}

	var records []airdrop.Record
	header, err := c.doURL(ctx, http.MethodGet, rel, map[string]string{"Prefer": "count=exact"}, &records)
	if err != nil {
		return Page{}, err
	}
	return Page{Records: records, Total: parseContentRange(header.Get("Content-Range"))}, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, id string) (airdrop.Record, error) {
	if c == nil {
		return airdrop.Record{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return airdrop.Record{}, ErrNotFound
	}

	values := url.Values{}
	values.Set("select", "*")
	values.Set("id", "eq."+id)
	values.Set("limit", "1")
	rel := &url.URL{Path: c.tablePath(), RawQuery: values.Encode()}

	var records []airdrop.Record
	if _, err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return airdrop.Record{}, err
	}
	if len(records) == 0 {
		return airdrop.Record{}, fmt.Errorf("airdrop %q: %w", id, ErrNotFound)
	}
	return records[0], nil
}

// Ping issues a HEAD request against the table.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: c.tablePath(), RawQuery: "limit=1"}
	_, err := c.doURL(ctx, http.MethodHead, rel, nil, nil)
	return err
}

func (c *Client) tablePath() string {
	base := strings.TrimSuffix(c.baseURL.Path, "/")
	if base == "" {
		base = "/rest/v1"
	}
	return base + "/" + url.PathEscape(c.table)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, headers map[string]string, dest any) (http.Header, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.Header, &StatusError{Path: rel.Path, Status: resp.StatusCode, Body: string(body)}
	}
	if dest == nil || method == http.MethodHead {
		return resp.Header, nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return resp.Header, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

// parseContentRange reads the total from "0-19/137" or "*/0". Unknown
// totals ("0-19/*" or a missing header) return -1.
func parseContentRange(v string) int {
	_, total, ok := strings.Cut(strings.TrimSpace(v), "/")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend url %q has no host: %w", raw, ErrNotConfigured)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
