package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/promo"
)

type LeadStoreInterface interface {
	Upsert(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	GetByEmail(ctx context.Context, email string) (*entity.Lead, error)
}

type TriggerEvaluator interface {
	Evaluate(ctx context.Context, leadID string, action entity.TriggerType, snap entity.BehaviorSnapshot) (*entity.TriggerEvent, error)
}

type PromoLedgerInterface interface {
	Validate(code string, amount decimal.Decimal, product string) promo.ValidationResult
	Redeem(code string, amount decimal.Decimal, product string) promo.ValidationResult
}
