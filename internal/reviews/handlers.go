package reviews

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/backend-volt/internal/common"
	"github.com/voltmart/backend-volt/internal/obs"
)

// Handler wires the review service to HTTP.
type Handler struct {
	Svc     *Service
	Metrics *obs.StoreMetrics
}

// List returns the reviews for a product, honouring the sort parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	order := ParseSortOrder(r.URL.Query().Get("sort"))
	revs, err := h.Svc.ProductReviews(r.Context(), chi.URLParam(r, "productId"), order)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": revs})
}

// Summary returns the aggregated rating for a product.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.ProductRating(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// Create adds a review for the authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	rev, err := h.Svc.AddReview(r.Context(), userID, chi.URLParam(r, "productId"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.ReviewsCreated.Inc()
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": rev})
}

// Eligibility reports whether the authenticated user may review the product.
func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	can, err := h.Svc.CanUserReview(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"canReview": can}})
}

// MarkHelpful increments a review's helpful counter.
func (h *Handler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	rev, err := h.Svc.MarkHelpful(r.Context(), chi.URLParam(r, "reviewId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rev})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicate):
		common.JSONError(w, http.StatusConflict, "ALREADY_REVIEWED", "user has already reviewed this product", nil)
	case errors.Is(err, ErrReviewNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "review not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process review", nil)
	}
}
