package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/promo"
)

type MockPromoLedger struct {
	mock.Mock
}

func (m *MockPromoLedger) Validate(code string, amount decimal.Decimal, product string) promo.ValidationResult {
	args := m.Called(code, amount, product)
	return args.Get(0).(promo.ValidationResult)
}

func (m *MockPromoLedger) Redeem(code string, amount decimal.Decimal, product string) promo.ValidationResult {
	args := m.Called(code, amount, product)
	return args.Get(0).(promo.ValidationResult)
}

func TestQuoteReturnsLedgerResult(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Validate", "SAVE20", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:          true,
		Code:           "SAVE20",
		DiscountAmount: decimal.RequireFromString("10.00"),
		FinalAmount:    decimal.RequireFromString("40.00"),
	})

	uc := NewApplyPromoUseCase(ledger, new(MockOrchestrator))
	out := uc.Quote(PromoQuoteInput{Code: "SAVE20", Amount: 50, Product: "diy"})

	assert.True(t, out.Valid)
	assert.Equal(t, 10.0, out.DiscountAmount)
	assert.Equal(t, 40.0, out.FinalAmount)
	ledger.AssertExpectations(t)
}

func TestQuoteInvalidCodeCarriesReason(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Validate", "GHOST", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:  false,
		Reason: "promo code not found",
		Code:   "GHOST",
	})

	uc := NewApplyPromoUseCase(ledger, new(MockOrchestrator))
	out := uc.Quote(PromoQuoteInput{Code: "GHOST", Amount: 50, Product: "diy"})

	assert.False(t, out.Valid)
	assert.Equal(t, "promo code not found", out.Reason)
}

func TestConfirmRedeemsAndCompletesCheckout(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Redeem", "SAVE20", mock.Anything, "review").Return(promo.ValidationResult{
		Valid:          true,
		Code:           "SAVE20",
		DiscountAmount: decimal.RequireFromString("30.00"),
		FinalAmount:    decimal.RequireFromString("120.00"),
	})

	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "lead-1", entity.TriggerType(""),
		entity.BehaviorSnapshot{CheckoutStarted: true, CheckoutCompleted: true}).
		Return(nil, nil)

	uc := NewApplyPromoUseCase(ledger, orch)
	out, err := uc.Confirm(context.Background(), ConfirmCheckoutInput{
		LeadID:    "lead-1",
		PromoCode: "SAVE20",
		Amount:    150,
		Product:   "review",
	})

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 30.0, out.DiscountAmount)
	assert.Equal(t, 120.0, out.FinalAmount)
	assert.Empty(t, out.PromoReason)
	ledger.AssertExpectations(t)
	orch.AssertExpectations(t)
}

func TestConfirmCompletesOrderDespiteRejectedPromo(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Redeem", "LAUNCH25", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:  false,
		Reason: "promo code usage limit reached",
		Code:   "LAUNCH25",
	})

	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "lead-1", entity.TriggerType(""), mock.Anything).
		Return(nil, nil)

	uc := NewApplyPromoUseCase(ledger, orch)
	out, err := uc.Confirm(context.Background(), ConfirmCheckoutInput{
		LeadID:    "lead-1",
		PromoCode: "LAUNCH25",
		Amount:    99,
		Product:   "diy",
	})

	require.NoError(t, err)
	assert.True(t, out.Success, "a refused discount never blocks the order")
	assert.Equal(t, "promo code usage limit reached", out.PromoReason)
	assert.Equal(t, 99.0, out.FinalAmount)
	assert.Zero(t, out.DiscountAmount)
}

func TestConfirmWithoutPromoSkipsLedger(t *testing.T) {
	ledger := new(MockPromoLedger)
	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "lead-1", entity.TriggerType(""), mock.Anything).
		Return(nil, nil)

	uc := NewApplyPromoUseCase(ledger, orch)
	out, err := uc.Confirm(context.Background(), ConfirmCheckoutInput{
		LeadID:  "lead-1",
		Amount:  49,
		Product: "diy",
	})

	require.NoError(t, err)
	assert.Equal(t, 49.0, out.FinalAmount)
	ledger.AssertNotCalled(t, "Redeem")
}

func TestConfirmUnknownLeadLeavesCodeUnburned(t *testing.T) {
	singleUse := 1
	store := promo.NewMemoryStore([]entity.PromoCode{{
		Code:          "ONCE",
		Kind:          entity.DiscountPercentage,
		Value:         decimal.NewFromInt(25),
		MaxUses:       &singleUse,
		Active:        true,
		TargetProduct: entity.TargetAllProducts,
	}})
	ledger := promo.NewLedger(store)

	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "no-such-lead", entity.TriggerType(""), mock.Anything).
		Return(nil, entity.ErrLeadNotFound)

	uc := NewApplyPromoUseCase(ledger, orch)
	_, err := uc.Confirm(context.Background(), ConfirmCheckoutInput{
		LeadID:    "no-such-lead",
		PromoCode: "ONCE",
		Amount:    80,
		Product:   "diy",
	})

	require.ErrorIs(t, err, entity.ErrLeadNotFound)

	pc, ok := store.Get("ONCE")
	require.True(t, ok)
	assert.Equal(t, 0, pc.UsedCount, "a failed confirmation must not consume the code")
}

func TestConfirmValidatesInput(t *testing.T) {
	uc := NewApplyPromoUseCase(new(MockPromoLedger), new(MockOrchestrator))

	tests := []struct {
		name  string
		input ConfirmCheckoutInput
		field string
	}{
		{"missing lead id", ConfirmCheckoutInput{Amount: 50, Product: "diy"}, "lead_id"},
		{"zero amount", ConfirmCheckoutInput{LeadID: "lead-1", Product: "diy"}, "amount"},
		{"missing product", ConfirmCheckoutInput{LeadID: "lead-1", Amount: 50}, "product"},
		{"unknown product", ConfirmCheckoutInput{LeadID: "lead-1", Amount: 50, Product: "vip"}, "product"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Confirm(context.Background(), tc.input)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
