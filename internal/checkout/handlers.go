package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/backend-volt/internal/cart"
	"github.com/voltmart/backend-volt/internal/common"
	"github.com/voltmart/backend-volt/internal/obs"
	"github.com/voltmart/backend-volt/internal/payment"
)

// Handler wires checkout to HTTP.
type Handler struct {
	Svc     *Service
	Metrics *obs.StoreMetrics
}

// PlaceOrder handles POST /checkout for the authenticated user.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
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
	order, err := h.Svc.PlaceOrder(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrdersPlaced.Inc()
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": order})
}

// GetOrder handles GET /orders/{orderId}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	order, err := h.Svc.GetOrder(r.Context(), userID, chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": order})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var fieldErrs payment.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		common.JSONError(w, http.StatusUnprocessableEntity, "PAYMENT_INVALID", "payment details failed validation", fieldErrs)
	case errors.Is(err, payment.ErrUnsupportedMethod):
		common.JSONError(w, http.StatusBadRequest, "PAYMENT_METHOD_UNSUPPORTED", err.Error(), nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cannot checkout an empty cart", nil)
	case errors.Is(err, cart.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrOrderNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, cart.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process checkout", nil)
	}
}
