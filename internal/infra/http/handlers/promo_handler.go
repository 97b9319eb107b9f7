package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clearpathlegal/growth-engine/internal/infra/http/middleware"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

// PromoHandler answers quote-time validation requests from the pricing and
// checkout pages. Validation is read-only; redemption happens on checkout
// confirmation.
type PromoHandler struct {
	PromoUC *usecase.ApplyPromoUseCase
}

func NewPromoHandler(uc *usecase.ApplyPromoUseCase) *PromoHandler {
	return &PromoHandler{PromoUC: uc}
}

func (h *PromoHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var input usecase.PromoQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if input.Code == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_CODE", "code is required")
		return
	}

	output := h.PromoUC.Quote(input)
	middleware.RecordPromoValidation(output.Valid)

	// An invalid code is a normal answer, not an HTTP error.
	writeJSON(w, http.StatusOK, output)
}
