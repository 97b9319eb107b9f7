package usecase

import "github.com/clearpathlegal/growth-engine/internal/entity"

type IntakeLeadInput struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
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

type IntakeLeadOutput struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Score          int     `json:"score"`
	Tier           string  `json:"tier"`
	Segment        string  `json:"segment"`
	EstimatedValue float64 `json:"estimated_value"`
	Priority       string  `json:"priority"`
	PricingTier    string  `json:"pricing_tier"`
	Sequence       string  `json:"assigned_sequence"`
}

type BehaviorReportInput struct {
	Action            string `json:"action,omitempty"`
	TimeOnSiteMs      int64  `json:"time_on_site_ms"`
	ScrollDepthPct    int    `json:"scroll_depth_pct"`
	PageViews         int    `json:"page_views"`
	ClickThroughs     int    `json:"click_throughs"`
	PricePageVisits   int    `json:"price_page_visits"`
	CheckoutStarted   bool   `json:"checkout_started"`
	CheckoutCompleted bool   `json:"checkout_completed"`
	CheckoutStartedAt string `json:"checkout_started_at,omitempty"`
}

type BehaviorReportOutput struct {
	Success      bool   `json:"success"`
	TriggerFired string `json:"trigger_fired,omitempty"`
}

type PromoQuoteInput struct {
	Code    string  `json:"code"`
	Amount  float64 `json:"amount"`
	Product string  `json:"product"`
}

type PromoQuoteOutput struct {
	Valid          bool    `json:"valid"`
	Reason         string  `json:"reason,omitempty"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

type ConfirmCheckoutInput struct {
	LeadID    string  `json:"lead_id"`
	PromoCode string  `json:"promo_code,omitempty"`
	Amount    float64 `json:"amount"`
	Product   string  `json:"product"`
}

type ConfirmCheckoutOutput struct {
	Success        bool    `json:"success"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
	PromoReason    string  `json:"promo_reason,omitempty"`
}

func toIntakeOutput(lead *entity.Lead) IntakeLeadOutput {
	return IntakeLeadOutput{
		ID:             lead.ID,
		Email:          lead.Email,
		Score:          lead.Scoring.Score,
		Tier:           string(lead.Scoring.Tier),
		Segment:        string(lead.Scoring.Segment),
		EstimatedValue: lead.Scoring.EstimatedValue,
		Priority:       string(lead.Scoring.Priority),
		PricingTier:    string(lead.Scoring.PricingTier),
		Sequence:       lead.Scoring.Sequence,
	}
}
