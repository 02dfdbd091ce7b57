// Package http implements the request dispatch and resilience layer:
// URL normalization, bounded timeout retries, unbounded rate-limit
// retries honoring Retry-After, and response classification.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/pco-client/internal/constants"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// AuthProvider computes the Authorization header value for a request.
// Implementations may perform network calls (session-token exchange).
type AuthProvider interface {
	AuthHeader(ctx context.Context) (string, error)
}

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents one logical API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// UploadPath streams the named file as multipart form data to the
	// upload endpoint instead of sending a JSON body.
	UploadPath string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// JSON parses the response body, returning nil for empty bodies (204).
func (r *Response) JSON() (map[string]interface{}, error) {
	if r == nil || len(r.Body) == 0 {
		return nil, nil
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(r.Body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", pco.ErrResponseBodyNotJSON, err)
	}

	return parsed, nil
}

// Client dispatches requests against the PCO API with full resilience
// policy. One Client is shared by all endpoint clients of a pco.Client.
type Client struct {
	baseURL   string
	uploadURL string
	auth      AuthProvider

	userAgent      string
	timeoutRetries int

	retryClient  *retryablehttp.Client
	uploadClient *retryablehttp.Client

	logger Logger
	debug  bool
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithTimeoutRetries sets how many attempts a timing-out request is
// given before RequestTimeoutError is raised.
func WithTimeoutRetries(retries int) Option {
	return func(c *Client) {
		c.timeoutRetries = retries
		c.retryClient.RetryMax = retries - 1
		c.uploadClient.RetryMax = retries - 1
	}
}

// WithUploadURL sets the file upload endpoint.
func WithUploadURL(uploadURL string) Option {
	return func(c *Client) {
		c.uploadURL = uploadURL
	}
}

// WithUploadTimeout sets the per-request timeout for uploads.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.uploadClient.HTTPClient.Timeout = timeout
	}
}

// WithSleep overrides the rate-limit wait, used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a new HTTP client for the PCO API. auth may be nil
// for unauthenticated requests.
func NewClient(baseURL string, auth AuthProvider, opts ...Option) *Client {
	client := &Client{
		baseURL:        baseURL,
		uploadURL:      constants.DefaultUploadURL,
		auth:           auth,
		userAgent:      constants.DefaultUserAgent,
		timeoutRetries: constants.DefaultTimeoutRetries,
		retryClient:    newRetryClient(constants.DefaultHTTPTimeout),
		uploadClient:   newRetryClient(constants.UploadHTTPTimeout),
		sleep:          sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// newRetryClient builds the inner attempt layer: bounded retries on
// timeout only, with no delay between attempts.
func newRetryClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = &nethttp.Client{Timeout: timeout}
	client.RetryMax = constants.DefaultTimeoutRetries - 1
	client.Logger = nil
	client.CheckRetry = retryOnTimeout
	client.Backoff = noBackoff
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return client
}

// retryOnTimeout retries timed-out attempts only. Other transport
// failures (DNS, TLS, connection reset) surface immediately, and
// response statuses are handled by the outer layers.
func retryOnTimeout(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil && isTimeout(err) {
		return true, nil
	}

	return false, nil
}

func noBackoff(min, max time.Duration, attemptNum int, resp *nethttp.Response) time.Duration {
	return 0
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do executes one logical request with full resilience policy: URL
// normalization, timeout retries, rate-limit retries, and response
// classification. On HTTP error statuses both the Response and a
// *pco.RequestFailedError are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	requestURL := req.Path
	if req.UploadPath == "" {
		// Uploads target a distinct host and skip normalization.
		requestURL = NormalizeURL(c.baseURL, req.Path)
	}

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(requestURL, "?") {
			separator = "&"
		}

		requestURL += separator + req.Query.Encode()
	}

	resp, err := c.dispatch(ctx, req, requestURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	return resp, &pco.RequestFailedError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%s %s returned %s", req.Method, requestURL, nethttp.StatusText(resp.StatusCode)),
		Body:       string(resp.Body),
	}
}

// DoJSON executes a request and parses the successful response body,
// returning nil for empty bodies.
func (c *Client) DoJSON(ctx context.Context, req *Request) (map[string]interface{}, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.JSON()
}

// dispatch runs the rate-limit-managed loop around timeout-managed
// attempts. 429 responses are absorbed here: the loop sleeps for the
// server-supplied Retry-After and retries without bound.
func (c *Client) dispatch(ctx context.Context, req *Request, requestURL string) (*Response, error) {
	for {
		resp, err := c.attempt(ctx, req, requestURL)
		if err != nil {
			if isTimeout(err) {
				return nil, &pco.RequestTimeoutError{URL: requestURL, Attempts: c.timeoutRetries}
			}

			credsErr := &pco.CredentialsError{}
			if errors.As(err, &credsErr) {
				return nil, err
			}

			return nil, &pco.UnexpectedRequestError{Message: err.Error()}
		}

		if resp.StatusCode == nethttp.StatusTooManyRequests {
			wait := retryAfter(resp)

			if c.debug && c.logger != nil {
				c.logger.Debug("Rate limited", map[string]interface{}{
					"url":         requestURL,
					"retry_after": wait.Seconds(),
				})
			}

			if err := c.sleep(ctx, wait); err != nil {
				return nil, &pco.UnexpectedRequestError{Message: err.Error()}
			}

			continue
		}

		return resp, nil
	}
}

// attempt issues one timeout-managed request and reads the full body.
func (c *Client) attempt(ctx context.Context, req *Request, requestURL string) (*Response, error) {
	var (
		body        []byte
		contentType string
		err         error
	)

	switch {
	case req.UploadPath != "":
		body, contentType, err = multipartBody(req.UploadPath)
		if err != nil {
			return nil, err
		}
	case req.Body != nil:
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		contentType = "application/json"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.auth != nil {
		header, err := c.auth.AuthHeader(ctx)
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Authorization", header)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    requestURL,
		})
	}

	client := c.retryClient
	if req.UploadPath != "" {
		client = c.uploadClient
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"url":    requestURL,
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// Upload streams the file at path as multipart form data to the upload
// endpoint, using the extended upload timeout.
func (c *Client) Upload(ctx context.Context, path string, query url.Values) (*Response, error) {
	if path == "" {
		return nil, pco.ErrUploadPathRequired
	}

	return c.Do(ctx, &Request{
		Method:     nethttp.MethodPost,
		Path:       c.uploadURL,
		Query:      query,
		UploadPath: path,
	})
}

// retryAfter reads the server-supplied wait from a 429 response.
func retryAfter(resp *Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Headers.Get("Retry-After"))
	if err != nil || seconds < 0 {
		seconds = 1
	}

	return time.Duration(seconds) * time.Second
}

// multipartBody builds a multipart form body streaming the named file
// under the "file" field.
func multipartBody(path string) ([]byte, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening upload file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("reading upload file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
