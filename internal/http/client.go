// Package http implements the HTTP transport shared by all resource
// clients: retries with backoff, API-key authentication, optional GET
// caching, interceptors, and jsonlines decoding.
package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spiderhub-io/hubapi/internal/auth"
	"github.com/spiderhub-io/hubapi/internal/constants"
	"github.com/spiderhub-io/hubapi/pkg/hubapi"
)

// Request is an API request before transport concerns are applied.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}

	// RawBody is sent verbatim when set, bypassing JSON encoding. Used
	// for jsonlines and form payloads.
	RawBody     []byte
	ContentType string
}

// Response is a completed API response with the body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client performs authenticated requests against one endpoint.
type Client struct {
	baseURL      string
	credentials  auth.CredentialsProvider
	httpClient   *retryablehttp.Client
	logger       hubapi.Logger
	debug        bool
	userAgent    string
	cache        hubapi.Cache
	cacheTTL     time.Duration
	interceptors *hubapi.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger hubapi.Logger) Option {
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

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout overrides the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithCache enables caching of GET responses.
func WithCache(cache hubapi.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithInterceptors sets the interceptor chain.
func WithInterceptors(chain *hubapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for the given endpoint. A nil credentials
// provider sends unauthenticated requests.
func NewClient(baseURL string, credentials auth.CredentialsProvider, options ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: credentials,
		httpClient:  retryClient,
		userAgent:   constants.DefaultUserAgent,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// checkRetry retries connection errors, 429 and 5xx. Client errors are
// final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	if resp.StatusCode >= 500 {
		return true, nil
	}

	return false, nil
}

// Do executes a request. On non-2xx responses it returns both the
// response and a *hubapi.ResponseError parsed from the body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.cache != nil && req.Method == http.MethodGet {
		if cached := c.cacheGet(ctx, req); cached != nil {
			return cached, nil
		}
	}

	interceptReq := &hubapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := c.buildRequest(ctx, req, interceptReq.Headers)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.interceptResponse(ctx, interceptReq, &hubapi.Response{Error: err})

		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         httpReq.URL.String(),
			"status_code": resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	c.interceptResponse(ctx, interceptReq, &hubapi.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	})

	if resp.StatusCode >= 400 {
		return resp, c.parseError(resp)
	}

	if c.cache != nil && req.Method == http.MethodGet {
		c.cacheSet(ctx, req, resp)
	}

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, req *Request, extraHeaders http.Header) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		body        []byte
		contentType string
		err         error
	)

	switch {
	case req.RawBody != nil:
		body = req.RawBody

		contentType = req.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	case req.Body != nil:
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		contentType = "application/json"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.credentials != nil {
		key, err := c.credentials.APIKey(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving API key: %w", err)
		}

		// The platform authenticates with the key as the basic-auth
		// username and an empty password.
		httpReq.SetBasicAuth(key, "")
	}

	for key, values := range extraHeaders {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) interceptResponse(ctx context.Context, req *hubapi.Request, resp *hubapi.Response) {
	if c.interceptors == nil {
		return
	}

	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
	if err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// parseError turns a non-2xx response into a *hubapi.ResponseError. Bodies
// that are not the structured error format are wrapped into one, keeping
// the raw text as detail.
func (c *Client) parseError(resp *Response) error {
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		errResp, err := hubapi.ParseResponseError(resp.Body)
		if err == nil && len(errResp.Errors) > 0 {
			return errResp
		}
	}

	return &hubapi.ResponseError{Errors: []hubapi.APIError{
		{
			Code:   statusToCode(resp.StatusCode),
			Title:  statusToTitle(resp.StatusCode),
			Detail: strings.TrimSpace(string(resp.Body)),
		},
	}}
}

func statusToCode(status int) int {
	switch status {
	case http.StatusBadRequest:
		return hubapi.ErrorCodeBadRequest
	case http.StatusUnauthorized:
		return hubapi.ErrorCodeNotAuthenticated
	case http.StatusForbidden:
		return hubapi.ErrorCodeNotAuthorized
	case http.StatusNotFound:
		return hubapi.ErrorCodeNotFound
	case http.StatusConflict:
		return hubapi.ErrorCodeReadOnlySetting
	case http.StatusTooManyRequests:
		return hubapi.ErrorCodeTooManyRequests
	default:
		return hubapi.ErrorCodeServerError
	}
}

func statusToTitle(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "SH-BadRequest"
	case http.StatusUnauthorized:
		return "SH-NotAuthenticated"
	case http.StatusForbidden:
		return "SH-NotAuthorized"
	case http.StatusNotFound:
		return "SH-ResourceNotFound"
	case http.StatusConflict:
		return "SH-ReadOnlySetting"
	case http.StatusTooManyRequests:
		return "SH-TooManyRequests"
	default:
		return "SH-ServerError"
	}
}

func (c *Client) cacheKey(req *Request) string {
	key := req.Path
	if len(req.Query) > 0 {
		key += "?" + req.Query.Encode()
	}

	return key
}

func (c *Client) cacheGet(ctx context.Context, req *Request) *Response {
	entry, err := c.cache.Get(ctx, c.cacheKey(req))
	if err != nil {
		return nil
	}

	return &Response{
		StatusCode: http.StatusOK,
		Body:       entry.Data,
	}
}

func (c *Client) cacheSet(ctx context.Context, req *Request, resp *Response) {
	ttl := c.cacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	entry := &hubapi.CacheEntry{
		Data:      resp.Body,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      resp.Headers.Get("ETag"),
	}

	err := c.cache.Set(ctx, c.cacheKey(req), entry)
	if err != nil && c.logger != nil {
		c.logger.Warn("caching response failed", map[string]interface{}{
			"key":   c.cacheKey(req),
			"error": err.Error(),
		})
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostForm performs a POST request with a urlencoded form body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	})
}

// PostLines performs a POST request with a jsonlines body, one JSON
// document per line.
func (c *Client) PostLines(ctx context.Context, path string, query url.Values, lines []interface{}) (*Response, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	for _, line := range lines {
		err := encoder.Encode(line)
		if err != nil {
			return nil, fmt.Errorf("encoding jsonlines body: %w", err)
		}
	}

	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Query:       query,
		RawBody:     buf.Bytes(),
		ContentType: "application/jsonlines",
	})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DecodeLines decodes a jsonlines body into a slice of T, one document
// per non-empty line.
func DecodeLines[T any](body []byte) ([]T, error) {
	var out []T

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var item T

		err := json.Unmarshal(line, &item)
		if err != nil {
			return nil, fmt.Errorf("decoding jsonlines entry: %w", err)
		}

		out = append(out, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning jsonlines body: %w", err)
	}

	return out, nil
}
