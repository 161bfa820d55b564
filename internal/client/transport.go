package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries bounds how often a failed request is retried. Retries
// apply only to idempotent methods failing with a network error or a 5xx
// response; 4xx responses are never retried, and neither are POSTs, since a
// network error does not prove the server skipped the create.
const DefaultMaxRetries = 2

// Transport performs HTTP requests against the API and classifies failures
// into the client error taxonomy.
type Transport struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64

	mu    sync.RWMutex
	token string
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) { t.client = c }
}

// WithToken sets the initial bearer token.
func WithToken(token string) TransportOption {
	return func(t *Transport) { t.token = token }
}

// WithMaxRetries overrides the retry bound for network and 5xx failures.
func WithMaxRetries(n uint64) TransportOption {
	return func(t *Transport) { t.maxRetries = n }
}

// NewTransport creates a Transport for the given base URL, e.g.
// "http://localhost:8080/api/v1".
func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	t := &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetToken replaces the bearer token used on subsequent requests.
func (t *Transport) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *Transport) bearer() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// Do sends a JSON request and decodes a JSON response into out (when out is
// non-nil). The request body is marshaled once and replayed across retries.
// Non-idempotent methods get exactly one attempt.
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := t.newRequest(ctx, method, path, query, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return t.roundTrip(req, out)
	}

	return backoff.Retry(op, t.policy(ctx, method))
}

// DoMultipart sends a multipart/form-data request with one file part and
// decodes the JSON response into out. Multipart requests are not retried.
func (t *Transport) DoMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode form field %q: %w", k, err)
		}
	}
	fw, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("encode file part: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("encode file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := t.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return t.roundTrip(req, out)
}

func (t *Transport) policy(ctx context.Context, method string) backoff.BackOff {
	if !idempotent(method) {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, t.maxRetries), ctx)
}

// idempotent reports whether a method can be safely resent after an ambiguous
// failure. POST is excluded: replaying a create that the server may already
// have processed would duplicate the item.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (t *Transport) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := t.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := t.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// roundTrip executes the request and maps the outcome to the error taxonomy.
// Network errors and 5xx responses are returned as retryable, everything
// else is permanent.
func (t *Transport) roundTrip(req *http.Request, out any) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return &ServerError{Status: resp.StatusCode}
	case resp.StatusCode >= 400:
		return backoff.Permanent(classifyClientError(req, resp))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// classifyClientError turns a 4xx response into a typed error.
func classifyClientError(req *http.Request, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return &AuthError{Status: resp.StatusCode}
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return &NotFoundError{Path: req.URL.Path}
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Errors) == 0 {
		return &ValidationError{
			Status: resp.StatusCode,
			Fields: map[string][]string{GeneralErrorKey: {http.StatusText(resp.StatusCode)}},
		}
	}
	return &ValidationError{Status: resp.StatusCode, Fields: body.Errors}
}
