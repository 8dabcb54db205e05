package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/brogw/internal/geo"
)

const (
	// DefaultTimeout bounds every registry request unless overridden
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the client to the gateway
	DefaultUserAgent = "brogw"

	maxErrorBody = 4096
)

// Client talks to the BRO groundwater registry gateway
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a registry client for the gateway at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("registry base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid registry URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the gateway URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListWells returns all well tubes inside the extent (RD New coordinates)
func (c *Client) ListWells(ctx context.Context, extent geo.Extent) ([]Well, error) {
	if err := extent.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("xmin", formatCoord(extent.XMin))
	q.Set("xmax", formatCoord(extent.XMax))
	q.Set("ymin", formatCoord(extent.YMin))
	q.Set("ymax", formatCoord(extent.YMax))

	var wells []Well
	if err := c.getJSON(ctx, "list_wells", "/gmw", q, &wells); err != nil {
		return nil, err
	}

	c.logger.Debug("listed wells", "extent", extent.String(), "count", len(wells))
	return wells, nil
}

type seriesResponse struct {
	Metadata     Metadata         `json:"metadata"`
	Measurements []rawMeasurement `json:"measurements"`
}

type rawMeasurement struct {
	Time  string          `json:"time"`
	Value json.RawMessage `json:"value"`
}

// FetchSeries downloads the measurement series of one tube of a well.
// Measurements without a numeric value or a parseable time are dropped.
// ErrNoData is returned when nothing usable remains.
func (c *Client) FetchSeries(ctx context.Context, gmwID string, tubeNr int) (*Series, error) {
	if gmwID == "" {
		return nil, ErrNoGMWID
	}
	if tubeNr < 1 {
		tubeNr = 1
	}

	path := fmt.Sprintf("/gmw/%s/tubes/%d/series", url.PathEscape(gmwID), tubeNr)

	var resp seriesResponse
	if err := c.getJSON(ctx, "fetch_series", path, nil, &resp); err != nil {
		return nil, err
	}

	series := &Series{
		GMWID:        gmwID,
		TubeNr:       tubeNr,
		Metadata:     resp.Metadata,
		Measurements: make([]Measurement, 0, len(resp.Measurements)),
	}
	if series.Metadata.TubeNr == 0 {
		series.Metadata.TubeNr = tubeNr
	}

	dropped := 0
	for _, raw := range resp.Measurements {
		m, ok := parseMeasurement(raw)
		if !ok {
			dropped++
			continue
		}
		series.Measurements = append(series.Measurements, m)
	}

	c.logger.Debug("fetched series",
		"gmw_id", gmwID,
		"tube", tubeNr,
		"measurements", len(series.Measurements),
		"dropped", dropped)

	if len(series.Measurements) == 0 {
		return nil, ErrNoData
	}
	return series, nil
}

func parseMeasurement(raw rawMeasurement) (Measurement, bool) {
	t, err := time.Parse(time.RFC3339, raw.Time)
	if err != nil {
		return Measurement{}, false
	}

	var v float64
	if len(raw.Value) == 0 || json.Unmarshal(raw.Value, &v) != nil {
		// strings and nulls are not measurements
		return Measurement{}, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measurement{}, false
	}
	return Measurement{Time: t, Value: v}, true
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) (err error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	endpoint := u.Path

	defer func() {
		if class := ClassOf(err); class != "" {
			ErrorsTotal.WithLabelValues(string(class)).Inc()
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &APIError{Class: ErrorClassClient, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		RequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Debug("registry request failed", "endpoint", endpoint, "error", err)
		return &APIError{Class: ErrorClassNetwork, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	RequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug("registry request",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Class:      classifyStatus(resp.StatusCode),
			Endpoint:   endpoint,
			Message:    extractMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return &APIError{Class: ErrorClassNetwork, Endpoint: endpoint, Err: ctx.Err()}
		}
		return &APIError{Class: ErrorClassDecode, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// extractMessage pulls {"error": "..."} out of an error body, falling back to the raw text
func extractMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
