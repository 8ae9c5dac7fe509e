package transport

import (
	"errors"
	"net/http"

	"stockroom/internal/domain"
	"stockroom/internal/middleware"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BranchHandler handles HTTP requests for branch management
type BranchHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(inventory service.InventoryService, logger *zap.Logger) *BranchHandler {
	return &BranchHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all branch routes
func (h *BranchHandler) RegisterRoutes(r chi.Router) {
	r.Route("/branches", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /branches
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.inventory.ListBranches(r.Context())
	if err != nil {
		h.logger.Error("Failed to list branches", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list branches")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, branches)
}

// Get handles GET /branches/{id}
func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	branch, err := h.inventory.GetBranch(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "branch not found")
			return
		}
		h.logger.Error("Failed to get branch", zap.String("branch_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get branch")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, branch)
}

// Create handles POST /branches
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.NewBranch
	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		h.logger.Debug("Branch validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	branch, err := h.inventory.CreateBranch(r.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create branch", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create branch")
		return
	}

	h.logger.Info("Branch created", zap.String("branch_id", branch.BranchID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, branch)
}

// Update handles PUT /branches/{id} with partial payloads
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch domain.BranchPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		h.logger.Debug("Branch patch validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	branch, err := h.inventory.UpdateBranch(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "branch not found")
			return
		}
		h.logger.Error("Failed to update branch", zap.String("branch_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update branch")
		return
	}

	h.logger.Info("Branch updated", zap.String("branch_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, branch)
}

// Delete handles DELETE /branches/{id}
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.DeleteBranch(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "branch not found")
			return
		}
		h.logger.Error("Failed to delete branch", zap.String("branch_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete branch")
		return
	}

	h.logger.Info("Branch deleted", zap.String("branch_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, domain.DeleteResult{Success: true, ID: id})
}
