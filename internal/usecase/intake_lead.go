package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/scoring"
)

// IntakeLeadUseCase scores a raw prospect and persists the result. Scoring
// is deterministic, so re-submitting the same attributes is idempotent; new
// attributes for an existing email re-score the lead in place.
type IntakeLeadUseCase struct {
	Leads LeadStoreInterface
}

func NewIntakeLeadUseCase(leads LeadStoreInterface) *IntakeLeadUseCase {
	return &IntakeLeadUseCase{Leads: leads}
}

func (uc *IntakeLeadUseCase) Execute(ctx context.Context, input IntakeLeadInput) (*IntakeLeadOutput, error) {
	if validationErrors := ValidateIntakeInput(input); len(validationErrors) > 0 {
		return nil, validationErrors[0]
	}

	attrs := entity.LeadAttributes{
		Email:             input.Email,
		Name:              input.Name,
		Phone:             input.Phone,
		County:            input.County,
		Category:          input.Category,
		Urgency:           input.Urgency,
		Employment:        input.Employment,
		IncomeBand:        input.IncomeBand,
		Industry:          input.Industry,
		SeekingLicense:    input.SeekingLicense,
		RepeatFiler:       input.RepeatFiler,
		PriorFailedFiling: input.PriorFailedFiling,
	}

	// Email is the unique key: repeat intakes update and re-score the
	// existing lead instead of creating a duplicate.
	lead, err := uc.Leads.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		lead.Name = attrs.Name
		lead.Phone = attrs.Phone
		lead.Attributes = attrs
	case errors.Is(err, entity.ErrLeadNotFound):
		lead, err = entity.NewLead(attrs)
		if err != nil {
			return nil, ValidationError{"email", err.Error()}
		}
	default:
		return nil, fmt.Errorf("looking up lead: %w", err)
	}

	lead.Scoring = scoring.Score(lead.Attributes)

	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return nil, fmt.Errorf("persisting lead: %w", err)
	}

	out := toIntakeOutput(lead)
	return &out, nil
}
