package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/infra/http/middleware"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

type BehaviorHandler struct {
	ReportUC *usecase.ReportBehaviorUseCase
}

func NewBehaviorHandler(uc *usecase.ReportBehaviorUseCase) *BehaviorHandler {
	return &BehaviorHandler{ReportUC: uc}
}

func (h *BehaviorHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")
	if leadID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_LEAD_ID", "lead id is required")
		return
	}

	var input usecase.BehaviorReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.ReportUC.Execute(r.Context(), leadID, input)
	if err != nil {
		var validationErr usecase.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", validationErr.Error())
		case errors.Is(err, entity.ErrLeadNotFound):
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "lead not found")
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "REPORT_FAILED", "Failed to process behavior report")
		}
		return
	}

	if output.TriggerFired != "" {
		middleware.RecordTriggerFired(output.TriggerFired)
	}
	writeJSON(w, http.StatusOK, output)
}
