// Package housecall provides a REST client for the Housecall Pro API, the
// system of record for customers, leads and booked service calls.
package housecall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluepeak/home-services-platform/pkg/logging"
)

const (
	defaultBaseURL = "https://api.housecallpro.com"
	defaultTimeout = 10 * time.Second
)

// Client is a Housecall Pro API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	companyID  string
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (sandbox, tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Housecall Pro API client.
func NewClient(apiKey, companyID string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:    apiKey,
		companyID: companyID,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupCustomer searches existing customers by free-form term
// (name, phone, email).
func (c *Client) LookupCustomer(ctx context.Context, term string) ([]Customer, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("housecall: empty search term")
	}
	q := url.Values{}
	q.Set("q", term)
	q.Set("page_size", "10")

	var out customersResponse
	if err := c.do(ctx, http.MethodGet, "/customers", q, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

// CreateLead records a new inbound lead and returns its id.
func (c *Client) CreateLead(ctx context.Context, req LeadRequest) (string, error) {
	var out leadResponse
	if err := c.do(ctx, http.MethodPost, "/leads", nil, req, "", &out); err != nil {
		return "", err
	}
	if out.Lead.ID == "" {
		return "", fmt.Errorf("housecall: create lead returned empty id")
	}
	return out.Lead.ID, nil
}

// BookServiceCall creates a job for the requested window. The idempotency
// key is forwarded as an Idempotency-Key header; the API decides whether to
// honor it. The client never retries this call.
func (c *Client) BookServiceCall(ctx context.Context, req BookingRequest, idempotencyKey string) (*Job, error) {
	var out jobResponse
	if err := c.do(ctx, http.MethodPost, "/jobs", nil, req, idempotencyKey, &out); err != nil {
		return nil, err
	}
	if out.Job.ID == "" {
		return nil, fmt.Errorf("housecall: book service call returned empty job id")
	}
	return &out.Job, nil
}

// JobsScheduledOn lists jobs already on the board for a calendar date.
func (c *Client) JobsScheduledOn(ctx context.Context, date time.Time) ([]Job, error) {
	q := url.Values{}
	q.Set("scheduled_start_min", date.Format("2006-01-02")+"T00:00:00Z")
	q.Set("scheduled_start_max", date.Format("2006-01-02")+"T23:59:59Z")
	q.Set("page_size", "200")

	var out jobsResponse
	if err := c.do(ctx, http.MethodGet, "/jobs", q, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// DispatchableTechCount returns how many dispatchable field employees exist.
func (c *Client) DispatchableTechCount(ctx context.Context) (int, error) {
	var out employeesResponse
	if err := c.do(ctx, http.MethodGet, "/employees", nil, nil, "", &out); err != nil {
		return 0, err
	}
	n := 0
	for _, e := range out.Employees {
		if e.Dispatchable {
			n++
		}
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, idempotencyKey string, out interface{}) error {
	if strings.TrimSpace(c.apiKey) == "" {
		return fmt.Errorf("housecall: missing api key")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("housecall: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("housecall: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.companyID != "" {
		req.Header.Set("X-Company-Id", c.companyID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("housecall: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("housecall: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Error("housecall: api error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("housecall: %s %s returned %d: %s", method, path, resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("housecall: decode response: %w", err)
		}
	}
	return nil
}
