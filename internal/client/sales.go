package client

import (
	"context"
	"fmt"
	"net/http"

	"stockroom/internal/domain"
	"stockroom/internal/tagcache"

	"go.uber.org/zap"
)

// CreateSale submits a checkout. Before any network round trip, every
// requested quantity is checked against the last-known stock for its
// product and size; a violation rejects the sale locally with a
// ValidationFailure wrapping ErrStockExceeded and issues no HTTP call.
// Quantities for sizes the client has never seen are left to the server.
//
// A successful sale decrements size-level stock server-side, so every
// cached product entry is invalidated and refetched on next observation.
func (c *Client) CreateSale(ctx context.Context, req domain.CreateSaleRequest) (*domain.Sale, error) {
	for _, item := range req.Items {
		known, ok := c.knownStock(item.ProductID, item.Size)
		if ok && item.Quantity > known {
			return nil, &APIError{
				Kind: ValidationFailure,
				Message: fmt.Sprintf(
					"requested quantity %d exceeds known stock %d for product %s size %q",
					item.Quantity, known, item.ProductID, item.Size,
				),
				cause: ErrStockExceeded,
			}
		}
	}

	var sale domain.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", nil, req, &sale); err != nil {
		return nil, err
	}

	// Stock changed for every product involved; the conservative reading of
	// that is that any cached product may now be stale.
	c.cache.InvalidateType(TagProducts)

	c.mu.Lock()
	for _, item := range sale.SaleItems {
		k := stockKey{productID: item.ProductID, size: item.Size}
		if known, ok := c.stock[k]; ok {
			c.stock[k] = known - item.Quantity
		}
	}
	c.mu.Unlock()

	c.logger.Info("Sale created",
		zap.String("sale_id", sale.SaleID.String()),
		zap.Float64("total_amount", sale.TotalAmount),
		zap.Int("items", len(sale.SaleItems)),
	)
	return &sale, nil
}

// ListSales returns all sales, newest first
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return query(ctx, c, "sales", "/sales", nil, func(sales []domain.Sale) []tagcache.Tag {
		tags := make([]tagcache.Tag, 0, len(sales)+1)
		for _, s := range sales {
			tags = append(tags, tagcache.ItemTag(TagSales, s.SaleID.String()))
		}
		return append(tags, tagcache.ListTag(TagSales))
	})
}
