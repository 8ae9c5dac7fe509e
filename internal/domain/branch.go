package domain

import "github.com/google/uuid"

// Branch represents a physical store location
type Branch struct {
	BranchID uuid.UUID `json:"branchId" db:"id"`
	Name     string    `json:"name" db:"name"`
	Location string    `json:"location" db:"location"`
}

// NewBranch is the payload for creating a branch
type NewBranch struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
}

// BranchPatch carries partial branch updates; nil fields are left unchanged
type BranchPatch struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}
