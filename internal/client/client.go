package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bookden/internal/models"
)

// BookAPI is the book repository contract. Replace takes the complete entity
// body; the backend has no partial-update endpoint, so callers must fetch the
// current representation before constructing a replacement.
type BookAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) (*models.Book, error)
	ReplaceBook(ctx context.Context, id int64, book *models.Book) (*models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// SagaAPI is the saga repository contract. List returns summaries only; Get
// returns the detail with the embedded, authoritative book list.
type SagaAPI interface {
	ListSagas(ctx context.Context) ([]models.SagaSummary, error)
	GetSaga(ctx context.Context, id int64) (*models.Saga, error)
	CreateSaga(ctx context.Context, saga *models.Saga) (*models.Saga, error)
	ReplaceSaga(ctx context.Context, id int64, saga *models.Saga) (*models.Saga, error)
	DeleteSaga(ctx context.Context, id int64) error
}

// SearchAPI is the external search collaborator, proxied through the backend.
type SearchAPI interface {
	SearchByTitle(ctx context.Context, title string) ([]Candidate, error)
}

// UploadAPI is the asset upload collaborator used to populate cover URLs.
type UploadAPI interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Compile-time checks that HTTPClient satisfies every collaborator contract.
var (
	_ BookAPI   = (*HTTPClient)(nil)
	_ SagaAPI   = (*HTTPClient)(nil)
	_ SearchAPI = (*HTTPClient)(nil)
	_ UploadAPI = (*HTTPClient)(nil)
)

// HTTPClient talks to the reading-tracker REST API.
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	searchLimiter *rate.Limiter
	userAgent     string
}

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "bookden-cli/0.1"
)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithSearchRate caps outgoing search requests; the backend proxies them to
// a quota-limited provider.
func WithSearchRate(perSecond float64, burst int) Option {
	return func(c *HTTPClient) {
		c.searchLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://localhost:8080/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: defaultTimeout},
		searchLimiter: rate.NewLimiter(rate.Limit(2), 4),
		userAgent:     defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one JSON request. A non-nil in is marshalled as the request body;
// a non-nil out receives the decoded response body. Non-2xx responses come
// back as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		// drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	var created models.Book
	if err := c.do(ctx, http.MethodPost, "/books", book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) ReplaceBook(ctx context.Context, id int64, book *models.Book) (*models.Book, error) {
	var updated models.Book
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), book, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

func (c *HTTPClient) ListSagas(ctx context.Context) ([]models.SagaSummary, error) {
	var sagas []models.SagaSummary
	if err := c.do(ctx, http.MethodGet, "/sagas", nil, &sagas); err != nil {
		return nil, err
	}
	return sagas, nil
}

func (c *HTTPClient) GetSaga(ctx context.Context, id int64) (*models.Saga, error) {
	var saga models.Saga
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sagas/%d", id), nil, &saga); err != nil {
		return nil, err
	}
	return &saga, nil
}

func (c *HTTPClient) CreateSaga(ctx context.Context, saga *models.Saga) (*models.Saga, error) {
	var created models.Saga
	if err := c.do(ctx, http.MethodPost, "/sagas", saga, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) ReplaceSaga(ctx context.Context, id int64, saga *models.Saga) (*models.Saga, error) {
	var updated models.Saga
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sagas/%d", id), saga, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteSaga(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sagas/%d", id), nil, nil)
}
