package entity

import "time"

// BehaviorSnapshot is the server-side view of a lead's live session.
// Clients flush partial snapshots periodically and on page unload; reports
// can arrive out of order, so Merge keeps the stronger value per field and
// never lowers one.
type BehaviorSnapshot struct {
	TimeOnSiteMs      int64      `json:"time_on_site_ms"`
	ScrollDepthPct    int        `json:"scroll_depth_pct"`
	PageViews         int        `json:"page_views"`
	ClickThroughs     int        `json:"click_throughs"`
	PricePageVisits   int        `json:"price_page_visits"`
	CheckoutStarted   bool       `json:"checkout_started"`
	CheckoutCompleted bool       `json:"checkout_completed"`
	CheckoutStartedAt *time.Time `json:"checkout_started_at,omitempty"`
}

// Merge folds an incoming report into the stored snapshot: max for the
// counters, OR for the one-way booleans, earliest for CheckoutStartedAt.
func (b *BehaviorSnapshot) Merge(in BehaviorSnapshot) {
	b.TimeOnSiteMs = max(b.TimeOnSiteMs, in.TimeOnSiteMs)
	b.ScrollDepthPct = max(b.ScrollDepthPct, in.ScrollDepthPct)
	b.PageViews = max(b.PageViews, in.PageViews)
	b.ClickThroughs = max(b.ClickThroughs, in.ClickThroughs)
	b.PricePageVisits = max(b.PricePageVisits, in.PricePageVisits)
	b.CheckoutStarted = b.CheckoutStarted || in.CheckoutStarted
	b.CheckoutCompleted = b.CheckoutCompleted || in.CheckoutCompleted

	if in.CheckoutStartedAt != nil {
		if b.CheckoutStartedAt == nil || in.CheckoutStartedAt.Before(*b.CheckoutStartedAt) {
			at := *in.CheckoutStartedAt
			b.CheckoutStartedAt = &at
		}
	}
}

// IsZero reports whether the snapshot carries no data at all.
func (b BehaviorSnapshot) IsZero() bool {
	return b.TimeOnSiteMs == 0 && b.ScrollDepthPct == 0 && b.PageViews == 0 &&
		b.ClickThroughs == 0 && b.PricePageVisits == 0 &&
		!b.CheckoutStarted && !b.CheckoutCompleted && b.CheckoutStartedAt == nil
}
