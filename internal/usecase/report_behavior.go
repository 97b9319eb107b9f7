package usecase

import (
	"context"
	"time"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// ReportBehaviorUseCase feeds a client behavior report into the trigger
// orchestrator. Reports without an action hint only update counters.
type ReportBehaviorUseCase struct {
	Orchestrator TriggerEvaluator
}

func NewReportBehaviorUseCase(orchestrator TriggerEvaluator) *ReportBehaviorUseCase {
	return &ReportBehaviorUseCase{Orchestrator: orchestrator}
}

func (uc *ReportBehaviorUseCase) Execute(ctx context.Context, leadID string, input BehaviorReportInput) (*BehaviorReportOutput, error) {
	if validationErrors := ValidateBehaviorReport(input); len(validationErrors) > 0 {
		return nil, validationErrors[0]
	}

	var action entity.TriggerType
	if input.Action != "" {
		parsed, ok := entity.ParseTriggerType(input.Action)
		if !ok {
			return nil, ValidationError{"action", "is not a known trigger action"}
		}
		action = parsed
	}

	snap := toSnapshot(input)
	if action == "" && snap.IsZero() {
		// Nothing to merge and nothing to evaluate.
		return &BehaviorReportOutput{Success: true}, nil
	}

	event, err := uc.Orchestrator.Evaluate(ctx, leadID, action, snap)
	if err != nil {
		return nil, err
	}

	out := &BehaviorReportOutput{Success: true}
	if event != nil {
		out.TriggerFired = string(event.Type)
	}
	return out, nil
}

func toSnapshot(input BehaviorReportInput) entity.BehaviorSnapshot {
	snap := entity.BehaviorSnapshot{
		TimeOnSiteMs:      input.TimeOnSiteMs,
		ScrollDepthPct:    input.ScrollDepthPct,
		PageViews:         input.PageViews,
		ClickThroughs:     input.ClickThroughs,
		PricePageVisits:   input.PricePageVisits,
		CheckoutStarted:   input.CheckoutStarted,
		CheckoutCompleted: input.CheckoutCompleted,
	}
	if input.CheckoutStartedAt != "" {
		if at, err := time.Parse(time.RFC3339, input.CheckoutStartedAt); err == nil {
			snap.CheckoutStartedAt = &at
		}
	}
	// A checkout start without an explicit timestamp still needs one for
	// the abandonment dwell gate.
	if snap.CheckoutStarted && snap.CheckoutStartedAt == nil {
		now := time.Now()
		snap.CheckoutStartedAt = &now
	}
	return snap
}
