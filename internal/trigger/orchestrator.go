// Package trigger decides when a lead's live behavior fires a marketing
// trigger. Each trigger type fires at most once per lead, ever; everything
// else — predicate not met, already fired, unknown action — is a normal
// no-op, not an error.
package trigger

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// LeadStore is the slice of the lead store the orchestrator needs.
type LeadStore interface {
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	MergeBehavior(ctx context.Context, id string, snap entity.BehaviorSnapshot) (*entity.Lead, error)
	MarkTriggerFired(ctx context.Context, id string, t entity.TriggerType) (bool, error)
}

// Fanout delivers a composed message across the configured channels.
// Delivery is best-effort from the orchestrator's point of view: a dispatch
// failure never rolls back the fired marker.
type Fanout interface {
	Dispatch(ctx context.Context, msg entity.Message) error
}

// Scheduler durably parks a delayed trigger keyed by lead and trigger type
// and calls back into FireDue when it comes due. Scheduling the same key
// again while pending keeps the first due time.
type Scheduler interface {
	Schedule(ctx context.Context, leadID string, t entity.TriggerType, dueAt time.Time) error
}

type Orchestrator struct {
	leads  LeadStore
	fanout Fanout
	sched  Scheduler
	cfg    Config
	rules  map[entity.TriggerType]Rule

	locks keyedMutex

	// injectable for tests
	now  func() time.Time
	pick func(n int) int
}

func NewOrchestrator(leads LeadStore, fanout Fanout, sched Scheduler, cfg Config) *Orchestrator {
	return &Orchestrator{
		leads:  leads,
		fanout: fanout,
		sched:  sched,
		cfg:    cfg,
		rules:  buildRules(cfg),
		now:    time.Now,
		pick:   rand.IntN,
	}
}

// Evaluate merges the behavior snapshot into the lead, then, when an action
// hint is present, runs the matching rule. Delayed rules are parked on the
// scheduler; immediate rules go straight through the fire path.
func (o *Orchestrator) Evaluate(ctx context.Context, leadID string, action entity.TriggerType, snap entity.BehaviorSnapshot) (*entity.TriggerEvent, error) {
	lead, err := o.leads.MergeBehavior(ctx, leadID, snap)
	if err != nil {
		return nil, err
	}

	if action == "" {
		return nil, nil
	}
	rule, ok := o.rules[action]
	if !ok {
		return nil, nil
	}

	if rule.Delay > 0 {
		// Cheap pre-checks before parking a timer. The authoritative
		// check-then-mutate happens again at expiry under the lead lock.
		if lead.TriggerFired(rule.Type) || !rule.Predicate(o.cfg, lead.Behavior, o.now()) {
			return nil, nil
		}
		if err := o.sched.Schedule(ctx, leadID, rule.Type, o.now().Add(rule.Delay)); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return o.fire(ctx, leadID, rule)
}

// FireDue is the scheduler's callback at delay expiry. The predicate is
// re-evaluated against the lead's current behavior, never the snapshot from
// schedule time: a checkout completed during the delay cancels a pending
// cart abandon by making its predicate false.
func (o *Orchestrator) FireDue(ctx context.Context, leadID string, t entity.TriggerType) (*entity.TriggerEvent, error) {
	rule, ok := o.rules[t]
	if !ok {
		return nil, nil
	}
	return o.fire(ctx, leadID, rule)
}

// fire is the single serialized check-then-mutate path. Both the immediate
// and the delayed flow end here, under the same per-lead lock, so two
// concurrent callers can never both observe "not yet fired" and both
// commit.
func (o *Orchestrator) fire(ctx context.Context, leadID string, rule Rule) (*entity.TriggerEvent, error) {
	unlock := o.locks.lock(leadID)
	defer unlock()

	lead, err := o.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if lead.TriggerFired(rule.Type) {
		return nil, nil
	}
	if !rule.Predicate(o.cfg, lead.Behavior, o.now()) {
		return nil, nil
	}

	marked, err := o.leads.MarkTriggerFired(ctx, leadID, rule.Type)
	if err != nil {
		return nil, err
	}
	if !marked {
		return nil, nil
	}

	variant := rule.Variants[o.pick(len(rule.Variants))]
	event := &entity.TriggerEvent{
		ID:       uuid.New().String(),
		LeadID:   lead.ID,
		Type:     rule.Type,
		Behavior: lead.Behavior,
		Delay:    rule.Delay,
		Priority: rule.Priority,
		Variant:  variant.ID,
		Subject:  variant.Subject,
		Body:     variant.Body,
		FiredAt:  o.now(),
	}

	msg := composeMessage(lead, event)

	// Fire-and-forget: delivery reliability is the fanout's concern.
	go func() {
		if err := o.fanout.Dispatch(context.Background(), msg); err != nil {
			log.Printf("[trigger] dispatch failed lead=%s type=%s: %v", lead.ID, rule.Type, err)
		}
	}()

	return event, nil
}

func composeMessage(lead *entity.Lead, event *entity.TriggerEvent) entity.Message {
	return entity.Message{
		Title:     event.Subject,
		Body:      event.Body,
		Priority:  event.Priority,
		Recipient: lead.Email,
		Metadata: map[string]string{
			"lead_id":      lead.ID,
			"trigger_type": string(event.Type),
			"variant":      event.Variant,
			"segment":      string(lead.Scoring.Segment),
		},
	}
}

// keyedMutex serializes work per lead id. Cross-lead operations never
// contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
