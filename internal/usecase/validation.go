package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateIntakeInput rejects only structurally impossible input. Every
// non-identity attribute has a sane default (the scoring model degrades to
// the lowest bucket), so unknown enum values pass through untouched.
func ValidateIntakeInput(input IntakeLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	return errors
}

func ValidateBehaviorReport(input BehaviorReportInput) []ValidationError {
	var errors []ValidationError

	if input.TimeOnSiteMs < 0 {
		errors = append(errors, ValidationError{"time_on_site_ms", "must not be negative"})
	}
	if input.ScrollDepthPct < 0 || input.ScrollDepthPct > 100 {
		errors = append(errors, ValidationError{"scroll_depth_pct", "must be between 0 and 100"})
	}
	if input.PageViews < 0 || input.ClickThroughs < 0 || input.PricePageVisits < 0 {
		errors = append(errors, ValidationError{"counters", "must not be negative"})
	}
	if input.CheckoutStartedAt != "" && !isValidTimestamp(input.CheckoutStartedAt) {
		errors = append(errors, ValidationError{"checkout_started_at", "must be a valid RFC3339 timestamp"})
	}

	return errors
}

func ValidateConfirmCheckout(input ConfirmCheckoutInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}
	if input.Amount <= 0 {
		errors = append(errors, ValidationError{"amount", "must be positive"})
	}
	if strings.TrimSpace(input.Product) == "" {
		errors = append(errors, ValidationError{"product", "is required"})
	} else if !entity.KnownProduct(input.Product) {
		errors = append(errors, ValidationError{"product", "is not a known product"})
	}

	return errors
}

func isValidTimestamp(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	return false
}
