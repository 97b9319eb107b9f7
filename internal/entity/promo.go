package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrPromoNotFound = errors.New("promo code not found")

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// TargetAllProducts is the wildcard product target for promo codes.
const TargetAllProducts = "all"

// PromoCode is a redeemable discount token. UsedCount only moves up, and
// only through a successful redemption on the ledger.
type PromoCode struct {
	Code           string           `json:"code"`
	Kind           DiscountKind     `json:"discount_kind"`
	Value          decimal.Decimal  `json:"discount_value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxUses        *int             `json:"max_uses,omitempty"`
	UsedCount      int              `json:"used_count"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	Active         bool             `json:"active"`
	TargetProduct  string           `json:"target_product"`
}
