package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clearpathlegal/growth-engine/internal/infra/http/middleware"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

// IntakeHandler is the public lead-capture endpoint: rate limited per IP
// because it sits behind a marketing form.
type IntakeHandler struct {
	IntakeUC    *usecase.IntakeLeadUseCase
	rateLimiter *RateLimiter
}

func NewIntakeHandler(uc *usecase.IntakeLeadUseCase) *IntakeHandler {
	return &IntakeHandler{
		IntakeUC:    uc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *IntakeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.IntakeLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.IntakeUC.Execute(r.Context(), input)
	if err != nil {
		var validationErr usecase.ValidationError
		if errors.As(err, &validationErr) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_INPUT", validationErr.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTAKE_FAILED", "Failed to capture lead")
		return
	}

	middleware.RecordLeadScored(output.Tier, output.Segment)
	writeJSON(w, http.StatusCreated, output)
}
