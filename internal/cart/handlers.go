package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/backend-volt/internal/common"
	"github.com/voltmart/backend-volt/internal/coupon"
	"github.com/voltmart/backend-volt/internal/obs"
	"github.com/voltmart/backend-volt/internal/pricing"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc      *Service
	Currency string
	Metrics  *obs.StoreMetrics
}

type couponView struct {
	Code    string        `json:"code"`
	Percent pricing.Money `json:"percent"`
}

type cartView struct {
	ID        string             `json:"id"`
	Items     []pricing.LineItem `json:"items"`
	Coupon    *couponView        `json:"coupon"`
	Summary   pricing.Summary    `json:"summary"`
	Currency  string             `json:"currency"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (h *Handler) view(snap Snapshot) cartView {
	items := snap.Cart.Items
	if items == nil {
		items = []pricing.LineItem{}
	}
	v := cartView{
		ID:        snap.ID,
		Items:     items,
		Summary:   snap.Cart.Summarize(h.Svc.Pricing),
		Currency:  h.Currency,
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.Cart.CouponCode != "" && snap.Cart.CouponPercent.Valid {
		v.Coupon = &couponView{Code: snap.Cart.CouponCode, Percent: snap.Cart.CouponPercent.Decimal}
	}
	return v
}

func (h *Handler) respond(w http.ResponseWriter, status int, snap Snapshot) {
	common.JSON(w, status, map[string]any{"data": h.view(snap)})
}

// Create provisions a new empty cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Create(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, snap)
}

// Get returns cart contents plus the full pricing breakdown.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

// AddItem appends or merges a line item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload pricing.LineItem
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	snap, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

// UpdateItem sets the quantity of an existing line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	snap, err := h.Svc.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

// RemoveItem drops a line from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Clear(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

// ApplyCoupon validates a coupon code against the cart and applies it.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	snap, err := h.Svc.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), payload.Code)
	if err != nil {
		h.recordCoupon("rejected")
		h.writeError(w, err)
		return
	}
	h.recordCoupon("applied")
	h.respond(w, http.StatusOK, snap)
}

// RemoveCoupon detaches the applied coupon.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.RemoveCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, snap)
}

func (h *Handler) recordCoupon(outcome string) {
	if h.Metrics != nil {
		h.Metrics.CouponApplied.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, coupon.ErrInvalidCode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_COUPON", "invalid coupon code", nil)
	case errors.Is(err, coupon.ErrNotApplicable):
		common.JSONError(w, http.StatusBadRequest, "COUPON_NOT_APPLICABLE", "coupon cannot be applied to this cart", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process cart", nil)
	}
}
