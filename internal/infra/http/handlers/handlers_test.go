package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/promo"
	"github.com/clearpathlegal/growth-engine/internal/usecase"
)

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadStore) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadStore) GetByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) Evaluate(ctx context.Context, leadID string, action entity.TriggerType, snap entity.BehaviorSnapshot) (*entity.TriggerEvent, error) {
	args := m.Called(ctx, leadID, action, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TriggerEvent), args.Error(1)
}

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

func doRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIntakeHandlerCreatesLead(t *testing.T) {
	store := new(MockLeadStore)
	store.On("GetByEmail", mock.Anything, "sam@example.com").Return(nil, entity.ErrLeadNotFound)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	handler := NewIntakeHandler(usecase.NewIntakeLeadUseCase(store))
	router := chi.NewRouter()
	router.Post("/leads/intake", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/intake",
		`{"email":"sam@example.com","county":"king","urgency":"immediate","employment":"job_seeking"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var out usecase.IntakeLeadOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.ID)
	assert.Greater(t, out.Score, 0)
	assert.NotEmpty(t, out.Tier)
	assert.NotEmpty(t, out.Sequence)
}

func TestIntakeHandlerRejectsInvalidJSON(t *testing.T) {
	handler := NewIntakeHandler(usecase.NewIntakeLeadUseCase(new(MockLeadStore)))
	router := chi.NewRouter()
	router.Post("/leads/intake", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/intake", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
}

func TestIntakeHandlerRejectsMissingEmail(t *testing.T) {
	handler := NewIntakeHandler(usecase.NewIntakeLeadUseCase(new(MockLeadStore)))
	router := chi.NewRouter()
	router.Post("/leads/intake", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/intake", `{"county":"king"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestIntakeHandlerRateLimitsPerIP(t *testing.T) {
	store := new(MockLeadStore)
	store.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, entity.ErrLeadNotFound)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	handler := NewIntakeHandler(usecase.NewIntakeLeadUseCase(store))
	router := chi.NewRouter()
	router.Post("/leads/intake", handler.Handle)

	body := `{"email":"sam@example.com"}`
	for range 10 {
		rec := doRequest(router, http.MethodPost, "/leads/intake", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(router, http.MethodPost, "/leads/intake", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestBehaviorHandlerReportsTrigger(t *testing.T) {
	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "lead-1", entity.TriggerExitIntent, mock.Anything).
		Return(&entity.TriggerEvent{Type: entity.TriggerExitIntent}, nil)

	handler := NewBehaviorHandler(usecase.NewReportBehaviorUseCase(orch))
	router := chi.NewRouter()
	router.Post("/leads/{leadId}/behavior", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/lead-1/behavior",
		`{"action":"exit_intent","page_views":2}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.BehaviorReportOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "exit_intent", out.TriggerFired)
}

func TestBehaviorHandlerUnknownLead(t *testing.T) {
	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "ghost", mock.Anything, mock.Anything).
		Return(nil, entity.ErrLeadNotFound)

	handler := NewBehaviorHandler(usecase.NewReportBehaviorUseCase(orch))
	router := chi.NewRouter()
	router.Post("/leads/{leadId}/behavior", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/ghost/behavior", `{"page_views":1}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "LEAD_NOT_FOUND")
}

func TestBehaviorHandlerRejectsUnknownAction(t *testing.T) {
	handler := NewBehaviorHandler(usecase.NewReportBehaviorUseCase(new(MockOrchestrator)))
	router := chi.NewRouter()
	router.Post("/leads/{leadId}/behavior", handler.Handle)

	rec := doRequest(router, http.MethodPost, "/leads/lead-1/behavior", `{"action":"rage_click"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestPromoHandlerValidCode(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Validate", "SAVE20", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:          true,
		Code:           "SAVE20",
		DiscountAmount: decimal.RequireFromString("10.00"),
		FinalAmount:    decimal.RequireFromString("40.00"),
	})

	handler := NewPromoHandler(usecase.NewApplyPromoUseCase(ledger, new(MockOrchestrator)))
	router := chi.NewRouter()
	router.Post("/promo/validate", handler.HandleValidate)

	rec := doRequest(router, http.MethodPost, "/promo/validate",
		`{"code":"SAVE20","amount":50,"product":"diy"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.PromoQuoteOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Valid)
	assert.Equal(t, 10.0, out.DiscountAmount)
	assert.Equal(t, 40.0, out.FinalAmount)
}

func TestPromoHandlerInvalidCodeIsStillOK(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Validate", "GHOST", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:  false,
		Reason: "promo code not found",
		Code:   "GHOST",
	})

	handler := NewPromoHandler(usecase.NewApplyPromoUseCase(ledger, new(MockOrchestrator)))
	router := chi.NewRouter()
	router.Post("/promo/validate", handler.HandleValidate)

	rec := doRequest(router, http.MethodPost, "/promo/validate",
		`{"code":"GHOST","amount":50,"product":"diy"}`)

	require.Equal(t, http.StatusOK, rec.Code, "an invalid code is a normal answer")

	var out usecase.PromoQuoteOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Valid)
	assert.Equal(t, "promo code not found", out.Reason)
}

func TestPromoHandlerRequiresCode(t *testing.T) {
	handler := NewPromoHandler(usecase.NewApplyPromoUseCase(new(MockPromoLedger), new(MockOrchestrator)))
	router := chi.NewRouter()
	router.Post("/promo/validate", handler.HandleValidate)

	rec := doRequest(router, http.MethodPost, "/promo/validate", `{"amount":50,"product":"diy"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_CODE")
}

func TestCheckoutHandlerConfirms(t *testing.T) {
	ledger := new(MockPromoLedger)
	ledger.On("Redeem", "SAVE20", mock.Anything, "diy").Return(promo.ValidationResult{
		Valid:          true,
		Code:           "SAVE20",
		DiscountAmount: decimal.RequireFromString("9.80"),
		FinalAmount:    decimal.RequireFromString("39.20"),
	})
	orch := new(MockOrchestrator)
	orch.On("Evaluate", mock.Anything, "lead-1", entity.TriggerType(""), mock.Anything).
		Return(nil, nil)

	handler := NewCheckoutHandler(usecase.NewApplyPromoUseCase(ledger, orch))
	router := chi.NewRouter()
	router.Post("/checkout/confirm", handler.HandleConfirm)

	rec := doRequest(router, http.MethodPost, "/checkout/confirm",
		`{"lead_id":"lead-1","promo_code":"SAVE20","amount":49,"product":"diy"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.ConfirmCheckoutOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, 39.2, out.FinalAmount)
}

func TestCheckoutHandlerValidatesInput(t *testing.T) {
	handler := NewCheckoutHandler(usecase.NewApplyPromoUseCase(new(MockPromoLedger), new(MockOrchestrator)))
	router := chi.NewRouter()
	router.Post("/checkout/confirm", handler.HandleConfirm)

	rec := doRequest(router, http.MethodPost, "/checkout/confirm", `{"amount":49,"product":"diy"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestLeadHandlerReturnsLead(t *testing.T) {
	lead, err := entity.NewLead(entity.LeadAttributes{Email: "sam@example.com"})
	require.NoError(t, err)
	lead.Scoring.Tier = entity.TierWarm

	store := new(MockLeadStore)
	store.On("GetByID", mock.Anything, lead.ID).Return(lead, nil)

	handler := NewLeadHandler(store)
	router := chi.NewRouter()
	router.Get("/leads/{leadId}", handler.HandleGet)

	rec := doRequest(router, http.MethodGet, "/leads/"+lead.ID, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, lead.ID, got.ID)
	assert.Equal(t, entity.TierWarm, got.Scoring.Tier)
}

func TestLeadHandlerNotFound(t *testing.T) {
	store := new(MockLeadStore)
	store.On("GetByID", mock.Anything, "ghost").Return(nil, entity.ErrLeadNotFound)

	handler := NewLeadHandler(store)
	router := chi.NewRouter()
	router.Get("/leads/{leadId}", handler.HandleGet)

	rec := doRequest(router, http.MethodGet, "/leads/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "LEAD_NOT_FOUND")
}
