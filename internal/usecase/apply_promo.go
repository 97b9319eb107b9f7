package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// ApplyPromoUseCase backs the checkout flow: Quote is the read-only check
// at quote time, Confirm redeems the code at confirmed-order time and
// marks the lead's checkout as completed, which falsifies any pending cart
// abandonment before its delay expires.
type ApplyPromoUseCase struct {
	Ledger       PromoLedgerInterface
	Orchestrator TriggerEvaluator
}

func NewApplyPromoUseCase(ledger PromoLedgerInterface, orchestrator TriggerEvaluator) *ApplyPromoUseCase {
	return &ApplyPromoUseCase{Ledger: ledger, Orchestrator: orchestrator}
}

func (uc *ApplyPromoUseCase) Quote(input PromoQuoteInput) *PromoQuoteOutput {
	result := uc.Ledger.Validate(input.Code, decimal.NewFromFloat(input.Amount), input.Product)

	discount, _ := result.DiscountAmount.Float64()
	final, _ := result.FinalAmount.Float64()
	return &PromoQuoteOutput{
		Valid:          result.Valid,
		Reason:         result.Reason,
		Code:           result.Code,
		DiscountAmount: discount,
		FinalAmount:    final,
	}
}

func (uc *ApplyPromoUseCase) Confirm(ctx context.Context, input ConfirmCheckoutInput) (*ConfirmCheckoutOutput, error) {
	if validationErrors := ValidateConfirmCheckout(input); len(validationErrors) > 0 {
		return nil, validationErrors[0]
	}

	// Completing checkout is a plain counter update; no action hint. It runs
	// before redemption so an unknown lead fails here and never consumes a
	// limited-use code.
	snap := entity.BehaviorSnapshot{CheckoutStarted: true, CheckoutCompleted: true}
	if _, err := uc.Orchestrator.Evaluate(ctx, input.LeadID, "", snap); err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(input.Amount)
	out := &ConfirmCheckoutOutput{Success: true}
	out.FinalAmount, _ = amount.Float64()

	if input.PromoCode != "" {
		result := uc.Ledger.Redeem(input.PromoCode, amount, input.Product)
		if !result.Valid {
			// The order still completes; only the discount is refused.
			out.PromoReason = result.Reason
		} else {
			out.DiscountAmount, _ = result.DiscountAmount.Float64()
			out.FinalAmount, _ = result.FinalAmount.Float64()
		}
	}

	return out, nil
}
