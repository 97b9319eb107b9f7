package promo

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

func newTestLedger(codes ...entity.PromoCode) (*Ledger, *MemoryStore) {
	store := NewMemoryStore(codes)
	return NewLedger(store), store
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestValidateSave20(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code:          "SAVE20",
		Kind:          entity.DiscountPercentage,
		Value:         decimal.NewFromInt(20),
		Active:        true,
		TargetProduct: entity.TargetAllProducts,
	})

	result := ledger.Validate("SAVE20", amount(50), entity.ProductDIY)

	assert.True(t, result.Valid)
	assert.Equal(t, "10.00", result.DiscountAmount.StringFixed(2))
	assert.Equal(t, "40.00", result.FinalAmount.StringFixed(2))
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "SAVE20", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(20),
		Active: true, TargetProduct: entity.TargetAllProducts,
	})

	assert.True(t, ledger.Validate("save20", amount(50), entity.ProductDIY).Valid)
	assert.True(t, ledger.Validate("  Save20 ", amount(50), entity.ProductDIY).Valid)
}

func TestValidateUnknownCode(t *testing.T) {
	ledger, _ := newTestLedger()

	result := ledger.Validate("NOPE", amount(50), entity.ProductDIY)

	assert.False(t, result.Valid)
	assert.Equal(t, "promo code not found", result.Reason)
}

func TestValidateInactiveCode(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "OLD", Kind: entity.DiscountFixed, Value: decimal.NewFromInt(5),
		Active: false, TargetProduct: entity.TargetAllProducts,
	})

	result := ledger.Validate("OLD", amount(50), entity.ProductDIY)

	assert.False(t, result.Valid)
	assert.Equal(t, "promo code is not active", result.Reason)
}

func TestValidateExpiredCode(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "EXPIRED", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(50),
		ValidUntil: &past, Active: true, TargetProduct: entity.TargetAllProducts,
	})

	// Everything else about the code is satisfied; expiry alone rejects it.
	result := ledger.Validate("EXPIRED", amount(500), entity.ProductReview)

	assert.False(t, result.Valid)
	assert.Equal(t, "promo code has expired", result.Reason)
}

func TestValidateMinOrderAmount(t *testing.T) {
	min := decimal.NewFromInt(30)
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "BIG", Kind: entity.DiscountFixed, Value: decimal.NewFromInt(10),
		MinOrderAmount: &min, Active: true, TargetProduct: entity.TargetAllProducts,
	})

	tooSmall := ledger.Validate("BIG", amount(29.99), entity.ProductDIY)
	assert.False(t, tooSmall.Valid)
	assert.Equal(t, "order amount must be at least 30.00", tooSmall.Reason)

	assert.True(t, ledger.Validate("BIG", amount(30), entity.ProductDIY).Valid)
}

func TestValidateProductTargeting(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "DIY15", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(15),
		Active: true, TargetProduct: entity.ProductDIY,
	})

	mismatch := ledger.Validate("DIY15", amount(100), entity.ProductReview)
	assert.False(t, mismatch.Valid)
	assert.Equal(t, `promo code is not valid for product "review"`, mismatch.Reason)

	assert.True(t, ledger.Validate("DIY15", amount(100), entity.ProductDIY).Valid)
}

func TestValidateHasNoSideEffects(t *testing.T) {
	ledger, store := newTestLedger(entity.PromoCode{
		Code: "SAVE20", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(20),
		Active: true, TargetProduct: entity.TargetAllProducts,
	})

	for range 5 {
		ledger.Validate("SAVE20", amount(50), entity.ProductDIY)
	}

	pc, _ := store.Get("SAVE20")
	assert.Equal(t, 0, pc.UsedCount)
}

func TestFixedDiscountNeverGoesNegative(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "HUGE", Kind: entity.DiscountFixed, Value: decimal.NewFromInt(100),
		Active: true, TargetProduct: entity.TargetAllProducts,
	})

	result := ledger.Validate("HUGE", amount(60), entity.ProductDIY)

	assert.True(t, result.Valid)
	assert.Equal(t, "100.00", result.DiscountAmount.StringFixed(2))
	assert.Equal(t, "0.00", result.FinalAmount.StringFixed(2))
}

func TestDiscountRoundsHalfUp(t *testing.T) {
	ledger, _ := newTestLedger(entity.PromoCode{
		Code: "SAVE15", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(15),
		Active: true, TargetProduct: entity.TargetAllProducts,
	})

	// 15% of 33.30 = 4.995 -> 5.00
	result := ledger.Validate("SAVE15", amount(33.30), entity.ProductDIY)

	assert.Equal(t, "5.00", result.DiscountAmount.StringFixed(2))
	assert.Equal(t, "28.30", result.FinalAmount.StringFixed(2))
}

func TestRedeemIncrementsUsedCount(t *testing.T) {
	ledger, store := newTestLedger(entity.PromoCode{
		Code: "SAVE20", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(20),
		Active: true, TargetProduct: entity.TargetAllProducts,
	})

	result := ledger.Redeem("SAVE20", amount(50), entity.ProductDIY)

	assert.True(t, result.Valid)
	pc, _ := store.Get("SAVE20")
	assert.Equal(t, 1, pc.UsedCount)
}

func TestRedeemRejectionLeavesCountUntouched(t *testing.T) {
	ledger, store := newTestLedger(entity.PromoCode{
		Code: "DIY15", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(15),
		Active: true, TargetProduct: entity.ProductDIY,
	})

	result := ledger.Redeem("DIY15", amount(100), entity.ProductReview)

	assert.False(t, result.Valid)
	pc, _ := store.Get("DIY15")
	assert.Equal(t, 0, pc.UsedCount)
}

func TestConcurrentRedeemRespectsMaxUses(t *testing.T) {
	maxUses := 1
	ledger, store := newTestLedger(entity.PromoCode{
		Code: "ONCE", Kind: entity.DiscountPercentage, Value: decimal.NewFromInt(25),
		MaxUses: &maxUses, Active: true, TargetProduct: entity.TargetAllProducts,
	})

	const callers = 50
	results := make([]ValidationResult, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = ledger.Redeem("ONCE", amount(80), entity.ProductDIY)
		}()
	}
	wg.Wait()

	var succeeded, rejected int
	for _, r := range results {
		if r.Valid {
			succeeded++
		} else {
			rejected++
			assert.Equal(t, "promo code usage limit reached", r.Reason)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one redemption wins")
	assert.Equal(t, callers-1, rejected)

	pc, _ := store.Get("ONCE")
	assert.Equal(t, 1, pc.UsedCount, "usedCount never passes maxUses")
}

func TestRedeemUnknownCode(t *testing.T) {
	ledger, _ := newTestLedger()

	result := ledger.Redeem("GHOST", amount(50), entity.ProductDIY)

	assert.False(t, result.Valid)
	assert.Equal(t, "promo code not found", result.Reason)
}
