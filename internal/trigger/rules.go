package trigger

import (
	"time"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// Config carries the behavioral thresholds. The defaults mirror the values
// the marketing team has been running with; treat them as tunables, not
// derived truths.
type Config struct {
	PriceCheckVisits int

	HighEngagementClicks    int
	HighEngagementClickTime time.Duration
	HighEngagementScrollPct int
	HighEngagementPageViews int
	HighEngagementTimeAlone time.Duration

	CartAbandonDwell time.Duration

	CartAbandonDelay    time.Duration
	PriceCheckDelay     time.Duration
	HighEngagementDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		PriceCheckVisits: 3,

		HighEngagementClicks:    3,
		HighEngagementClickTime: 2 * time.Minute,
		HighEngagementScrollPct: 70,
		HighEngagementPageViews: 4,
		HighEngagementTimeAlone: 5 * time.Minute,

		CartAbandonDwell: 3 * time.Minute,

		CartAbandonDelay:    30 * time.Minute,
		PriceCheckDelay:     15 * time.Minute,
		HighEngagementDelay: 10 * time.Minute,
	}
}

// Variant is one subject/body pick from a rule's A/B pool.
type Variant struct {
	ID      string
	Subject string
	Body    string
}

// Rule is one row of the trigger table. Predicate is evaluated against the
// lead's merged behavior both at schedule time and again at delay expiry;
// checkout completing between the two falsifies a pending cart abandon.
type Rule struct {
	Type      entity.TriggerType
	Delay     time.Duration
	Priority  entity.Priority
	Predicate func(cfg Config, b entity.BehaviorSnapshot, now time.Time) bool
	Variants  []Variant
}

func buildRules(cfg Config) map[entity.TriggerType]Rule {
	rules := []Rule{
		{
			Type:     entity.TriggerCartAbandon,
			Delay:    cfg.CartAbandonDelay,
			Priority: entity.PriorityHigh,
			Predicate: func(cfg Config, b entity.BehaviorSnapshot, now time.Time) bool {
				if !b.CheckoutStarted || b.CheckoutCompleted || b.CheckoutStartedAt == nil {
					return false
				}
				return now.Sub(*b.CheckoutStartedAt) >= cfg.CartAbandonDwell
			},
			Variants: []Variant{
				{"cart-a", "Your filing kit is waiting", "You were a few clicks away from starting your record clearing. Your answers are saved, so you can pick up right where you left off."},
				{"cart-b", "Still thinking it over?", "No pressure. Your checkout is saved, and if anything was unclear we are happy to walk you through it before you decide."},
			},
		},
		{
			Type:     entity.TriggerHighEngagement,
			Delay:    cfg.HighEngagementDelay,
			Priority: entity.PriorityHigh,
			// Engagement can be demonstrated several ways; any one of the
			// three predicates is sufficient.
			Predicate: func(cfg Config, b entity.BehaviorSnapshot, _ time.Time) bool {
				timeOnSite := time.Duration(b.TimeOnSiteMs) * time.Millisecond
				switch {
				case b.ClickThroughs >= cfg.HighEngagementClicks && timeOnSite >= cfg.HighEngagementClickTime:
					return true
				case b.ScrollDepthPct >= cfg.HighEngagementScrollPct && b.PageViews >= cfg.HighEngagementPageViews:
					return true
				case timeOnSite >= cfg.HighEngagementTimeAlone:
					return true
				}
				return false
			},
			Variants: []Variant{
				{"engage-a", "Questions about clearing your record?", "You have been reading up on the process. Most people qualify for more than they expect — a quick eligibility check will tell you exactly where you stand."},
				{"engage-b", "You are closer than you think", "Record clearing looks complicated from the outside, but most filings come down to a handful of forms. We can show you which ones apply to you."},
				{"engage-c", "Want a second opinion on your case?", "Looks like you are doing your homework. If you would like an attorney to look at your specific situation, the review package covers exactly that."},
			},
		},
		{
			Type:     entity.TriggerPriceCheck,
			Delay:    cfg.PriceCheckDelay,
			Priority: entity.PriorityMedium,
			Predicate: func(cfg Config, b entity.BehaviorSnapshot, _ time.Time) bool {
				return b.PricePageVisits >= cfg.PriceCheckVisits
			},
			Variants: []Variant{
				{"price-a", "Comparing your options?", "Fair question: the DIY kit covers straightforward filings, the attorney review covers everything else. Here is how to pick between them."},
				{"price-b", "About those prices", "You have checked the pricing page a few times. If cost is the sticking point, the DIY kit gets most cases filed for a fraction of attorney fees."},
			},
		},
		{
			Type:     entity.TriggerExitIntent,
			Delay:    0,
			Priority: entity.PriorityUrgent,
			Predicate: func(_ Config, b entity.BehaviorSnapshot, _ time.Time) bool {
				return b.PageViews >= 1
			},
			Variants: []Variant{
				{"exit-a", "Before you go", "One thing worth knowing: eligibility rules changed recently, and convictions that did not qualify a few years ago often do now."},
				{"exit-b", "Leaving already?", "If now is not the time, no problem — but a two-minute eligibility check will at least tell you whether your record can be cleared at all."},
			},
		},
	}

	table := make(map[entity.TriggerType]Rule, len(rules))
	for _, r := range rules {
		table[r.Type] = r
	}
	return table
}
