package nutanix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/requestid"
)

const (
	apiKeyHeader    = "X-ntnx-api-key"
	idempotencyKey  = "NTNX-Request-Id"
	acceptEncodings = "gzip, deflate, br"
)

// APIClient performs authenticated calls against one Prism Central endpoint.
// It is safe for concurrent use once built.
type APIClient struct {
	config         Configuration
	baseURL        *url.URL
	httpClient     *http.Client
	defaultHeaders http.Header
	logger         *zap.Logger
}

// NewAPIClient builds the HTTP transport for cfg.
func NewAPIClient(cfg *Configuration) (*APIClient, error) {
	if cfg == nil {
		return nil, errors.New("nutanix: configuration is required")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("nutanix: host is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("nutanix: api key is required")
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	base := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(strings.TrimSpace(cfg.Host), strconv.Itoa(port)),
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // operator opt-out via NUTANIX_VERIFY_SSL
	}
	// Content negotiation is handled here, not by net/http.
	transport.DisableCompression = true

	var rt http.RoundTripper = transport
	if cfg.WrapTransport != nil {
		rt = cfg.WrapTransport(rt)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &APIClient{
		config:     *cfg,
		baseURL:    base,
		httpClient: &http.Client{Transport: rt, Timeout: timeout},
		defaultHeaders: http.Header{
			"Accept":          []string{"application/json"},
			"Accept-Encoding": []string{acceptEncodings},
		},
		logger: logger.Named("nutanix"),
	}
	return client, nil
}

// BaseURL returns the scheme, host and port requests are sent to.
func (c *APIClient) BaseURL() string {
	return c.baseURL.String()
}

// request describes one logical API call; it may be sent several times.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	ifMatch string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends r, retrying transport failures and retryable statuses with
// exponential backoff, and decodes the JSON body into out when non-nil.
func (c *APIClient) do(ctx context.Context, r request, out any) (*response, error) {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return nil, errors.Wrap(err, "nutanix: encoding request body")
		}
	}

	// one idempotency key for every attempt of a mutating call
	var reqID string
	if r.method != http.MethodGet {
		reqID = uuid.New().String()
	}

	operation := func() (*response, error) {
		return c.attempt(ctx, r, payload, reqID)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.BackoffFactor
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = 2 * time.Minute

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.config.MaxRetryAttempts)+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Warn("retrying Nutanix API call",
				zap.String("method", r.method),
				zap.String("path", r.path),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrUnreachable) {
			return nil, errors.Wrapf(ErrUnreachable, "%s %s: %v", r.method, r.path, ctxErr)
		}
		return nil, err
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, errors.Wrapf(err, "nutanix: decoding %s %s response", r.method, r.path)
		}
	}
	return resp, nil
}

func (c *APIClient) attempt(ctx context.Context, r request, payload []byte, reqID string) (*response, error) {
	u := *c.baseURL
	u.Path = r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "nutanix: building request"))
	}
	for name, values := range c.defaultHeaders {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set(apiKeyHeader, c.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID != "" {
		req.Header.Set(idempotencyKey, reqID)
	}
	if r.ifMatch != "" {
		req.Header.Set("If-Match", r.ifMatch)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(errors.Wrapf(ErrUnreachable, "%s %s: %v", r.method, r.path, err))
		}
		return nil, errors.Wrapf(ErrUnreachable, "%s %s: %v", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := readBody(resp)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreachable, "%s %s: reading response: %v", r.method, r.path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, data)
		if retryableStatus(resp.StatusCode) {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// readBody reads the whole body, undoing the content encoding requested via
// Accept-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = zr.Close() }()
		reader = zr
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		return nil, errors.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
	return io.ReadAll(reader)
}

// ListOptions maps to the $page/$limit query parameters of v4 list calls.
type ListOptions struct {
	Page  int
	Limit int
}

func (o ListOptions) values() url.Values {
	limit := o.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := o.Page
	if page < 0 {
		page = 0
	}
	return url.Values{
		"$page":  []string{strconv.Itoa(page)},
		"$limit": []string{strconv.Itoa(limit)},
	}
}

// ResponseMetadata is the metadata block of v4 responses.
type ResponseMetadata struct {
	TotalAvailableResults *int `json:"totalAvailableResults,omitempty"`
}

type listResponse[T any] struct {
	Data     []T               `json:"data"`
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

type objectResponse[T any] struct {
	Data *T `json:"data"`
}

// TaskReference points at the asynchronous task Prism Central started for a
// mutating call.
type TaskReference struct {
	ObjectType string  `json:"$objectType,omitempty"`
	ExtID      *string `json:"extId,omitempty"`
}

func list[T any](ctx context.Context, c *APIClient, path string, opts ListOptions) ([]T, error) {
	var out listResponse[T]
	if _, err := c.do(ctx, request{method: http.MethodGet, path: path, query: opts.values()}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func task(ctx context.Context, c *APIClient, r request) (*TaskReference, error) {
	var out objectResponse[TaskReference]
	if _, err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return &TaskReference{}, nil
	}
	return out.Data, nil
}
