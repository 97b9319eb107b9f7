package entity

import "time"

type TriggerType string

const (
	TriggerCartAbandon    TriggerType = "cart_abandon"
	TriggerHighEngagement TriggerType = "high_engagement"
	TriggerPriceCheck     TriggerType = "price_check"
	TriggerExitIntent     TriggerType = "exit_intent"
)

// ParseTriggerType maps an action hint from a behavior report onto the
// closed trigger set.
func ParseTriggerType(s string) (TriggerType, bool) {
	switch TriggerType(s) {
	case TriggerCartAbandon, TriggerHighEngagement, TriggerPriceCheck, TriggerExitIntent:
		return TriggerType(s), true
	}
	return "", false
}

// TriggerEvent is the ephemeral record of a single fire. Only the fired-set
// marker on the lead outlives it.
type TriggerEvent struct {
	ID       string           `json:"id"`
	LeadID   string           `json:"lead_id"`
	Type     TriggerType      `json:"type"`
	Behavior BehaviorSnapshot `json:"behavior"`
	Delay    time.Duration    `json:"delay"`
	Priority Priority         `json:"priority"`
	Variant  string           `json:"variant"`
	Subject  string           `json:"subject"`
	Body     string           `json:"body"`
	FiredAt  time.Time        `json:"fired_at"`
}

// Message is the channel-agnostic payload handed to the notification fanout.
type Message struct {
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Priority  Priority          `json:"priority"`
	Recipient string            `json:"recipient"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
