package internode

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/zgpcy/internode-usage-exporter/internal/auth"
	"github.com/zgpcy/internode-usage-exporter/internal/config"
	"github.com/zgpcy/internode-usage-exporter/internal/logger"
)

// DefaultBaseURL is the fixed service discovery endpoint of the customer
// usage API.
const DefaultBaseURL = "https://customer-webtools-api.internode.on.net/api/v1.5/"

// rolloverLayout is the date format of the rollover attribute.
const rolloverLayout = "2006-01-02"

// UsageSnapshot is one traffic report, fetched fresh every poll cycle and
// never persisted.
type UsageSnapshot struct {
	Quota    int64     // total allowance for the billing cycle, in bytes
	Used     int64     // cumulative usage, in bytes
	Rollover time.Time // start date of the next billing cycle
}

// Remaining returns the unused part of the quota
func (s UsageSnapshot) Remaining() int64 {
	return s.Quota - s.Used
}

// serviceList is the XML shape of the discovery response
type serviceList struct {
	XMLName  xml.Name `xml:"internode"`
	Services []struct {
		Type string `xml:"type,attr"`
		Href string `xml:"href,attr"`
		Name string `xml:",chardata"`
	} `xml:"api>services>service"`
}

// trafficReport is the XML shape of the usage response. Used bytes are the
// element content; quota and rollover are attributes.
type trafficReport struct {
	XMLName xml.Name `xml:"internode"`
	Traffic struct {
		Name     string `xml:"name,attr"`
		Quota    int64  `xml:"quota,attr"`
		Rollover string `xml:"rollover,attr"`
		Unit     string `xml:"unit,attr"`
		Content  string `xml:",chardata"`
	} `xml:"api>traffic"`
}

// Client talks to the usage API with HTTP Basic authentication
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      auth.Credentials
	cfg        *config.Config
	logger     *logger.Logger
}

// NewClient creates a usage API client. The per-request timeout comes from
// the configuration.
func NewClient(cfg *config.Config, creds auth.Credentials, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.APITimeout) * time.Second,
		},
		baseURL: DefaultBaseURL,
		creds:   creds,
		cfg:     cfg,
		logger:  log,
	}
}

// Discover resolves the account's usage resource URL: one authenticated GET
// to the fixed discovery endpoint, take the first listed service and append
// /usage to its href. Any transport or parse failure is returned to the
// caller; the driver treats "no usage URL obtainable" as fatal.
func (c *Client) Discover(ctx context.Context) (string, error) {
	var list serviceList
	if err := c.get(ctx, c.baseURL, &list); err != nil {
		return "", fmt.Errorf("service discovery failed: %w", err)
	}

	if len(list.Services) == 0 {
		return "", fmt.Errorf("service discovery returned no services")
	}

	svc := list.Services[0]
	if svc.Href == "" {
		return "", fmt.Errorf("service discovery returned empty href")
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	ref, err := url.Parse(svc.Href)
	if err != nil {
		return "", fmt.Errorf("invalid service href %q: %w", svc.Href, err)
	}

	resourceURL := base.ResolveReference(ref).String() + "/usage"
	c.logger.Info("Discovered usage resource",
		"service_type", svc.Type,
		"resource_url", resourceURL)
	return resourceURL, nil
}

// FetchUsage performs a single authenticated GET for the usage resource and
// decodes the traffic report.
func (c *Client) FetchUsage(ctx context.Context, resourceURL string) (UsageSnapshot, error) {
	var report trafficReport
	if err := c.get(ctx, resourceURL, &report); err != nil {
		return UsageSnapshot{}, err
	}

	used, err := strconv.ParseInt(strings.TrimSpace(report.Traffic.Content), 10, 64)
	if err != nil {
		return UsageSnapshot{}, fmt.Errorf("malformed usage value %q: %w", report.Traffic.Content, err)
	}

	rollover, err := time.Parse(rolloverLayout, report.Traffic.Rollover)
	if err != nil {
		return UsageSnapshot{}, fmt.Errorf("malformed rollover date %q: %w", report.Traffic.Rollover, err)
	}

	return UsageSnapshot{
		Quota:    report.Traffic.Quota,
		Used:     used,
		Rollover: rollover,
	}, nil
}

// FetchUsageWithRetry fetches the usage snapshot with the bounded linear
// backoff policy: up to MaxAttempts attempts, sleeping attempt×BackoffStep
// after each failure (60s, 120s, 180s, 240s with the defaults). A success
// returns immediately; exhaustion returns the last error. Network errors,
// HTTP error statuses and malformed payloads all take the same retry path.
func (c *Client) FetchUsageWithRetry(ctx context.Context, resourceURL string) (UsageSnapshot, error) {
	var result UsageSnapshot

	bo := backoff.WithContext(
		backoff.WithMaxRetries(
			newLinearBackOff(time.Duration(c.cfg.BackoffStep)*time.Second),
			uint64(c.cfg.MaxAttempts-1),
		),
		ctx,
	)

	operation := func() error {
		snapshot, err := c.FetchUsage(ctx, resourceURL)
		if err != nil {
			return err
		}
		result = snapshot
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Usage fetch failed, will retry",
			"error", err,
			"backoff_seconds", wait.Seconds())
	}

	if err := backoff.RetryNotify(operation, bo, notify); err != nil {
		return UsageSnapshot{}, fmt.Errorf("usage fetch failed after %d attempts: %w", c.cfg.MaxAttempts, err)
	}

	return result, nil
}

// get performs an authenticated GET and decodes the XML response body
func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, rawURL)
	}

	if err := xml.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}

	return nil
}
