// Package promo validates and redeems discount codes for the checkout flow.
// Validate is read-only; Redeem re-runs the same checks under the per-code
// lock before touching UsedCount, so two racing redemptions can never both
// observe "not yet exhausted".
package promo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

var oneHundred = decimal.NewFromInt(100)

// CatalogStore abstracts the promo catalog. Update runs fn under the
// per-code lock; returning an error from fn aborts without mutating.
type CatalogStore interface {
	Get(code string) (entity.PromoCode, bool)
	Update(code string, fn func(pc *entity.PromoCode) error) error
}

type ValidationResult struct {
	Valid          bool            `json:"valid"`
	Reason         string          `json:"reason,omitempty"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

type Ledger struct {
	store CatalogStore
	now   func() time.Time
}

func NewLedger(store CatalogStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Validate runs the constraint checks without side effects. Codes are
// case-insensitive.
func (l *Ledger) Validate(code string, amount decimal.Decimal, product string) ValidationResult {
	normalized := NormalizeCode(code)

	pc, ok := l.store.Get(normalized)
	if !ok {
		return failure(normalized, "promo code not found")
	}
	if reason := l.check(pc, amount, product); reason != "" {
		return failure(normalized, reason)
	}
	return success(pc, amount)
}

// Redeem re-validates under the store's per-code lock and only then
// increments UsedCount. A race that exhausts the code between a caller's
// Validate and Redeem surfaces as the same reason a fresh Validate would
// produce; the discount is never partially applied.
func (l *Ledger) Redeem(code string, amount decimal.Decimal, product string) ValidationResult {
	normalized := NormalizeCode(code)

	var result ValidationResult
	err := l.store.Update(normalized, func(pc *entity.PromoCode) error {
		if reason := l.check(*pc, amount, product); reason != "" {
			result = failure(normalized, reason)
			return errRejected
		}
		pc.UsedCount++
		result = success(*pc, amount)
		return nil
	})

	if errors.Is(err, entity.ErrPromoNotFound) {
		return failure(normalized, "promo code not found")
	}
	return result
}

var errRejected = errors.New("promo: redemption rejected")

// check applies the constraint checks in order; the first failing check
// wins and its reason is returned verbatim to the caller.
func (l *Ledger) check(pc entity.PromoCode, amount decimal.Decimal, product string) string {
	if !pc.Active {
		return "promo code is not active"
	}
	if pc.ValidUntil != nil && l.now().After(*pc.ValidUntil) {
		return "promo code has expired"
	}
	if pc.MaxUses != nil && pc.UsedCount >= *pc.MaxUses {
		return "promo code usage limit reached"
	}
	if pc.MinOrderAmount != nil && amount.LessThan(*pc.MinOrderAmount) {
		return fmt.Sprintf("order amount must be at least %s", pc.MinOrderAmount.StringFixed(2))
	}
	if pc.TargetProduct != entity.TargetAllProducts && pc.TargetProduct != product {
		return fmt.Sprintf("promo code is not valid for product %q", product)
	}
	return ""
}

// Discount computes the discount and final amount for a code, rounded
// half-up to currency precision. The final amount never goes below zero.
func Discount(pc entity.PromoCode, amount decimal.Decimal) (discount, final decimal.Decimal) {
	switch pc.Kind {
	case entity.DiscountPercentage:
		discount = amount.Mul(pc.Value).Div(oneHundred).Round(2)
	case entity.DiscountFixed:
		discount = pc.Value.Round(2)
	}

	final = amount.Sub(discount).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return discount, final
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func failure(code, reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason, Code: code}
}

func success(pc entity.PromoCode, amount decimal.Decimal) ValidationResult {
	discount, final := Discount(pc, amount)
	return ValidationResult{
		Valid:          true,
		Code:           pc.Code,
		DiscountAmount: discount,
		FinalAmount:    final,
	}
}
