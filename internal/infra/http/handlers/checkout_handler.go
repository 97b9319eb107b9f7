package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/infra/http/middleware"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

// CheckoutHandler confirms an order: redeems the promo code (if any) and
// marks the lead's checkout completed, which defuses any pending cart
// abandonment trigger.
type CheckoutHandler struct {
	PromoUC *usecase.ApplyPromoUseCase
}

func NewCheckoutHandler(uc *usecase.ApplyPromoUseCase) *CheckoutHandler {
	return &CheckoutHandler{PromoUC: uc}
}

func (h *CheckoutHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConfirmCheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.PromoUC.Confirm(r.Context(), input)
	if err != nil {
		var validationErr usecase.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", validationErr.Error())
		case errors.Is(err, entity.ErrLeadNotFound):
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "lead not found")
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "CONFIRM_FAILED", "Failed to confirm checkout")
		}
		return
	}

	if input.PromoCode != "" {
		middleware.RecordPromoRedemption(output.PromoReason == "")
	}
	writeJSON(w, http.StatusOK, output)
}
