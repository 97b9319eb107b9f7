package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

type LeadHandler struct {
	Leads usecase.LeadStoreInterface
}

func NewLeadHandler(leads usecase.LeadStoreInterface) *LeadHandler {
	return &LeadHandler{Leads: leads}
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")
	if leadID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_LEAD_ID", "lead id is required")
		return
	}

	lead, err := h.Leads.GetByID(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "lead not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "LOOKUP_FAILED", "Failed to load lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}
