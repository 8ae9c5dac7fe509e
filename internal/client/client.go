// Package client is the typed data access layer for the stockroom REST API.
// It owns an in-memory tag-subscribed cache: query results are cached under
// their parameter-derived key, mutations invalidate the tags they declare,
// and invalidated entries are refetched on their next observation. There is
// no partial merge and no optimistic rewrite of cached records; between a
// mutation completing and the refetch landing, readers may briefly observe
// stale data.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/tagcache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tag types, one per entity family
const (
	TagProducts         = "Products"
	TagBranches         = "Branches"
	TagSales            = "Sales"
	TagDashboardMetrics = "DashboardMetrics"
	TagUsers            = "Users"
	TagExpenses         = "Expenses"
)

const defaultTimeout = 30 * time.Second

type stockKey struct {
	productID uuid.UUID
	size      string
}

// Client performs all reads and writes against the remote inventory API.
//
// Concurrency: methods are safe for concurrent use. The cache applies
// whichever response lands last; two racing updates to the same entity are
// not serialized and carry no version or etag detection. Last response wins.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *tagcache.Store
	logger     *zap.Logger

	// last-known stock per product+size, fed by every product payload
	// that passes through the client; backs the sale precondition check
	mu    sync.Mutex
	stock map[stockKey]int
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithCache supplies an externally constructed cache store, letting several
// collaborating clients share one process-wide cache
func WithCache(store *tagcache.Store) Option {
	return func(c *Client) { c.cache = store }
}

// New creates a Client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		cache:      tagcache.New(),
		logger:     zap.NewNop(),
		stock:      make(map[stockKey]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the underlying tag store, mainly so consumers can manage
// subscriptions for entries they observe long-term.
func (c *Client) Cache() *tagcache.Store {
	return c.cache
}

// Invalidate manually marks every cache entry of a tag type stale. The
// read-only queries (dashboard, users, expenses) are never invalidated by
// mutations in this system, so this is the only way to force their refetch.
func (c *Client) Invalidate(tagType string) {
	c.cache.InvalidateType(tagType)
}

// do performs one HTTP round trip and maps failures onto the error
// taxonomy. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &APIError{Kind: NetworkFailure, Message: "could not reach the API", cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
		}

		// The server wraps failures in {"error":{"message":...}}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}

		c.logger.Debug("Request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// query serves a read either from a fresh cache entry or by fetching it and
// caching the result under the tags derived from it.
func query[T any](ctx context.Context, c *Client, key, path string, params url.Values, providesTags func(T) []tagcache.Tag) (T, error) {
	var zero T

	if cached, ok := c.cache.Get(key); ok {
		if value, ok := cached.(T); ok {
			c.logger.Debug("Cache hit", zap.String("key", key))
			return value, nil
		}
	}

	var value T
	if err := c.do(ctx, http.MethodGet, path, params, nil, &value); err != nil {
		return zero, err
	}

	c.cache.Put(key, value, providesTags(value))
	return value, nil
}

// noteProducts records the size-level stock of every product payload that
// enters the client, keeping the sale precondition ledger current
func (c *Client) noteProducts(products ...domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		for _, s := range p.Sizes {
			c.stock[stockKey{productID: p.ProductID, size: s.Size}] = s.StockQuantity
		}
	}
}

func (c *Client) forgetProduct(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.stock {
		if k.productID == id {
			delete(c.stock, k)
		}
	}
}

func (c *Client) knownStock(id uuid.UUID, size string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	qty, ok := c.stock[stockKey{productID: id, size: size}]
	return qty, ok
}

// listProductsKey derives the cache key for a product listing. Identical
// filters always map to the same key, so repeating a query with no
// intervening mutation is served from cache.
func listProductsKey(f domain.ProductFilter) (string, url.Values) {
	params := url.Values{}
	params.Set("search", f.Search)
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("limit", strconv.Itoa(f.Limit))
	if f.BranchID != nil {
		params.Set("branchId", f.BranchID.String())
	}
	return "products?" + params.Encode(), params
}

// ListProducts returns one page of products matching the filter. Ordering
// within the page is server-defined and treated as opaque.
func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	filter = filter.Normalize()
	key, params := listProductsKey(filter)

	page, err := query(ctx, c, key, "/products", params, func(p domain.ProductPage) []tagcache.Tag {
		tags := make([]tagcache.Tag, 0, len(p.Products)+1)
		for _, product := range p.Products {
			tags = append(tags, tagcache.ItemTag(TagProducts, product.ProductID.String()))
		}
		return append(tags, tagcache.ListTag(TagProducts))
	})
	if err != nil {
		return nil, err
	}

	c.noteProducts(page.Products...)
	return &page, nil
}

// GetProduct fetches a single product by id. Fails with NotFound when no
// such product exists.
func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := "product/" + id.String()

	product, err := query(ctx, c, key, "/products/"+id.String(), nil, func(p domain.Product) []tagcache.Tag {
		return []tagcache.Tag{tagcache.ItemTag(TagProducts, id.String())}
	})
	if err != nil {
		return nil, err
	}

	c.noteProducts(product)
	return &product, nil
}

// CreateProduct creates a product and invalidates the product list so
// subsequent listings refetch
func (c *Client) CreateProduct(ctx context.Context, input domain.NewProduct) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, input, &product); err != nil {
		return nil, err
	}

	c.cache.Invalidate(tagcache.ListTag(TagProducts))
	c.noteProducts(product)
	c.logger.Info("Product created", zap.String("product_id", product.ProductID.String()))
	return &product, nil
}

// UpdateProduct applies a partial update and invalidates both the product's
// own cache entry and the product list
func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id.String(), nil, patch, &product); err != nil {
		return nil, err
	}

	c.cache.Invalidate(
		tagcache.ItemTag(TagProducts, id.String()),
		tagcache.ListTag(TagProducts),
	)
	c.noteProducts(product)
	c.logger.Info("Product updated", zap.String("product_id", id.String()))
	return &product, nil
}

// DeleteProduct removes a product and invalidates its cache entry
func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) (*domain.DeleteResult, error) {
	var result domain.DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/products/"+id.String(), nil, nil, &result); err != nil {
		return nil, err
	}

	c.cache.Invalidate(tagcache.ItemTag(TagProducts, id.String()))
	c.forgetProduct(id)
	c.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return &result, nil
}
