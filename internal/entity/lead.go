package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead not found")

type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCold Tier = "cold"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type PricingTier string

const (
	PricingPremium  PricingTier = "premium"
	PricingStandard PricingTier = "standard"
	PricingBudget   PricingTier = "budget"
)

type Segment string

const (
	SegmentOutOfArea             Segment = "out_of_area"
	SegmentUrgentHighValue       Segment = "urgent_high_value"
	SegmentRegulatedProfessional Segment = "regulated_professional"
	SegmentCareerAdvancer        Segment = "career_advancer"
	SegmentSecondChance          Segment = "second_chance"
	SegmentGeneralRegional       Segment = "general_regional"
	SegmentLowIntent             Segment = "low_intent"
)

// LeadAttributes are the static intake fields the scoring model consumes.
type LeadAttributes struct {
	Email             string `json:"email"`
	Name              string `json:"name,omitempty"`
	Phone             string `json:"phone,omitempty"`
	County            string `json:"county"`
	Category          string `json:"conviction_category"`
	Urgency           string `json:"urgency"`
	Employment        string `json:"employment"`
	IncomeBand        string `json:"income_band"`
	Industry          string `json:"industry"`
	SeekingLicense    bool   `json:"seeking_license"`
	RepeatFiler       bool   `json:"repeat_filer"`
	PriorFailedFiling bool   `json:"prior_failed_filing"`
}

// ScoringResult is written onto the lead once per scoring run and
// overwritten whenever new attributes arrive.
type ScoringResult struct {
	Score          int         `json:"score"`
	Tier           Tier        `json:"tier"`
	Segment        Segment     `json:"segment"`
	EstimatedValue float64     `json:"estimated_value"`
	Priority       Priority    `json:"priority"`
	PricingTier    PricingTier `json:"pricing_tier"`
	Sequence       string      `json:"assigned_sequence"`
}

type Lead struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Name       string           `json:"name,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	Attributes LeadAttributes   `json:"attributes"`
	Scoring    ScoringResult    `json:"scoring"`
	Behavior   BehaviorSnapshot `json:"behavior"`

	// FiredTriggers records every trigger type already dispatched for this
	// lead. A type appears at most once, ever.
	FiredTriggers map[TriggerType]time.Time `json:"fired_triggers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewLead(attrs LeadAttributes) (*Lead, error) {
	if attrs.Email == "" {
		return nil, errors.New("email is required")
	}

	now := time.Now()
	return &Lead{
		ID:            uuid.New().String(),
		Email:         attrs.Email,
		Name:          attrs.Name,
		Phone:         attrs.Phone,
		Attributes:    attrs,
		FiredTriggers: make(map[TriggerType]time.Time),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (l *Lead) TriggerFired(t TriggerType) bool {
	_, ok := l.FiredTriggers[t]
	return ok
}

// MarkTriggerFired adds t to the fired set. Returns false when the trigger
// was already present.
func (l *Lead) MarkTriggerFired(t TriggerType, at time.Time) bool {
	if l.FiredTriggers == nil {
		l.FiredTriggers = make(map[TriggerType]time.Time)
	}
	if _, ok := l.FiredTriggers[t]; ok {
		return false
	}
	l.FiredTriggers[t] = at
	return true
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	MergeBehavior(ctx context.Context, id string, snap BehaviorSnapshot) (*Lead, error)
	MarkTriggerFired(ctx context.Context, id string, t TriggerType) (bool, error)
}
