package client

import (
	"context"

	"stockroom/internal/domain"
	"stockroom/internal/tagcache"
)

// The report queries below are pure reads. No mutation in this system
// invalidates them automatically; call Invalidate with the matching tag
// type to force a refetch.

// GetDashboardMetrics returns the aggregate dashboard projection
func (c *Client) GetDashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	metrics, err := query(ctx, c, "dashboard", "/dashboard", nil, func(domain.DashboardMetrics) []tagcache.Tag {
		return []tagcache.Tag{tagcache.ListTag(TagDashboardMetrics)}
	})
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// ListUsers returns all back-office users
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return query(ctx, c, "users", "/users", nil, func([]domain.User) []tagcache.Tag {
		return []tagcache.Tag{tagcache.ListTag(TagUsers)}
	})
}

// ListExpensesByCategory returns the expense-by-category summary
func (c *Client) ListExpensesByCategory(ctx context.Context) ([]domain.ExpenseByCategorySummary, error) {
	return query(ctx, c, "expenses", "/expenses", nil, func([]domain.ExpenseByCategorySummary) []tagcache.Tag {
		return []tagcache.Tag{tagcache.ListTag(TagExpenses)}
	})
}
