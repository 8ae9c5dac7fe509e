package client

import (
	"context"
	"net/http"

	"stockroom/internal/domain"
	"stockroom/internal/tagcache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListBranches returns all branches
func (c *Client) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return query(ctx, c, "branches", "/branches", nil, func(branches []domain.Branch) []tagcache.Tag {
		tags := make([]tagcache.Tag, 0, len(branches)+1)
		for _, b := range branches {
			tags = append(tags, tagcache.ItemTag(TagBranches, b.BranchID.String()))
		}
		return append(tags, tagcache.ListTag(TagBranches))
	})
}

// GetBranch fetches a single branch by id. Fails with NotFound when no such
// branch exists.
func (c *Client) GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	key := "branch/" + id.String()

	branch, err := query(ctx, c, key, "/branches/"+id.String(), nil, func(domain.Branch) []tagcache.Tag {
		return []tagcache.Tag{tagcache.ItemTag(TagBranches, id.String())}
	})
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// CreateBranch creates a branch and invalidates the branch list
func (c *Client) CreateBranch(ctx context.Context, input domain.NewBranch) (*domain.Branch, error) {
	var branch domain.Branch
	if err := c.do(ctx, http.MethodPost, "/branches", nil, input, &branch); err != nil {
		return nil, err
	}

	c.cache.Invalidate(tagcache.ListTag(TagBranches))
	c.logger.Info("Branch created", zap.String("branch_id", branch.BranchID.String()))
	return &branch, nil
}

// UpdateBranch applies a partial update and invalidates both the branch's
// own cache entry and the branch list
func (c *Client) UpdateBranch(ctx context.Context, id uuid.UUID, patch domain.BranchPatch) (*domain.Branch, error) {
	var branch domain.Branch
	if err := c.do(ctx, http.MethodPut, "/branches/"+id.String(), nil, patch, &branch); err != nil {
		return nil, err
	}

	c.cache.Invalidate(
		tagcache.ItemTag(TagBranches, id.String()),
		tagcache.ListTag(TagBranches),
	)
	c.logger.Info("Branch updated", zap.String("branch_id", id.String()))
	return &branch, nil
}

// DeleteBranch removes a branch and invalidates its cache entry
func (c *Client) DeleteBranch(ctx context.Context, id uuid.UUID) (*domain.DeleteResult, error) {
	var result domain.DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/branches/"+id.String(), nil, nil, &result); err != nil {
		return nil, err
	}

	c.cache.Invalidate(tagcache.ItemTag(TagBranches, id.String()))
	c.logger.Info("Branch deleted", zap.String("branch_id", id.String()))
	return &result, nil
}
