package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// LeadRepository persists leads on Postgres. The fired-trigger set lives in
// its own table with a composite primary key, so marking a trigger fired is
// a single atomic insert.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, email, name, phone,
	county, conviction_category, urgency, employment, income_band, industry,
	seeking_license, repeat_filer, prior_failed_filing,
	score, tier, segment, estimated_value, priority, pricing_tier, assigned_sequence,
	time_on_site_ms, scroll_depth_pct, page_views, click_throughs, price_page_visits,
	checkout_started, checkout_completed, checkout_started_at,
	created_at, updated_at`

func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, email, name, phone,
			county, conviction_category, urgency, employment, income_band, industry,
			seeking_license, repeat_filer, prior_failed_filing,
			score, tier, segment, estimated_value, priority, pricing_tier, assigned_sequence,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			county = EXCLUDED.county,
			conviction_category = EXCLUDED.conviction_category,
			urgency = EXCLUDED.urgency,
			employment = EXCLUDED.employment,
			income_band = EXCLUDED.income_band,
			industry = EXCLUDED.industry,
			seeking_license = EXCLUDED.seeking_license,
			repeat_filer = EXCLUDED.repeat_filer,
			prior_failed_filing = EXCLUDED.prior_failed_filing,
			score = EXCLUDED.score,
			tier = EXCLUDED.tier,
			segment = EXCLUDED.segment,
			estimated_value = EXCLUDED.estimated_value,
			priority = EXCLUDED.priority,
			pricing_tier = EXCLUDED.pricing_tier,
			assigned_sequence = EXCLUDED.assigned_sequence,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.Email,
		lead.Name,
		lead.Phone,
		lead.Attributes.County,
		lead.Attributes.Category,
		lead.Attributes.Urgency,
		lead.Attributes.Employment,
		lead.Attributes.IncomeBand,
		lead.Attributes.Industry,
		lead.Attributes.SeekingLicense,
		lead.Attributes.RepeatFiler,
		lead.Attributes.PriorFailedFiling,
		lead.Scoring.Score,
		lead.Scoring.Tier,
		lead.Scoring.Segment,
		lead.Scoring.EstimatedValue,
		lead.Scoring.Priority,
		lead.Scoring.PricingTier,
		lead.Scoring.Sequence,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	return r.getByKey(ctx, "id", id)
}

func (r *LeadRepository) GetByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	return r.getByKey(ctx, "email", email)
}

func (r *LeadRepository) getByKey(ctx context.Context, column, value string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + column + ` = $1`

	lead := &entity.Lead{}
	var name, phone sql.NullString
	var checkoutStartedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, value).Scan(
		&lead.ID,
		&lead.Email,
		&name,
		&phone,
		&lead.Attributes.County,
		&lead.Attributes.Category,
		&lead.Attributes.Urgency,
		&lead.Attributes.Employment,
		&lead.Attributes.IncomeBand,
		&lead.Attributes.Industry,
		&lead.Attributes.SeekingLicense,
		&lead.Attributes.RepeatFiler,
		&lead.Attributes.PriorFailedFiling,
		&lead.Scoring.Score,
		&lead.Scoring.Tier,
		&lead.Scoring.Segment,
		&lead.Scoring.EstimatedValue,
		&lead.Scoring.Priority,
		&lead.Scoring.PricingTier,
		&lead.Scoring.Sequence,
		&lead.Behavior.TimeOnSiteMs,
		&lead.Behavior.ScrollDepthPct,
		&lead.Behavior.PageViews,
		&lead.Behavior.ClickThroughs,
		&lead.Behavior.PricePageVisits,
		&lead.Behavior.CheckoutStarted,
		&lead.Behavior.CheckoutCompleted,
		&checkoutStartedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	lead.Name = name.String
	lead.Phone = phone.String
	lead.Attributes.Email = lead.Email
	lead.Attributes.Name = lead.Name
	lead.Attributes.Phone = lead.Phone
	if checkoutStartedAt.Valid {
		at := checkoutStartedAt.Time
		lead.Behavior.CheckoutStartedAt = &at
	}

	fired, err := r.loadFiredTriggers(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	lead.FiredTriggers = fired

	return lead, nil
}

func (r *LeadRepository) loadFiredTriggers(ctx context.Context, leadID string) (map[entity.TriggerType]time.Time, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT trigger_type, fired_at FROM lead_triggers WHERE lead_id = $1`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fired := make(map[entity.TriggerType]time.Time)
	for rows.Next() {
		var triggerType string
		var firedAt time.Time
		if err := rows.Scan(&triggerType, &firedAt); err != nil {
			return nil, err
		}
		fired[entity.TriggerType(triggerType)] = firedAt
	}
	return fired, rows.Err()
}

// MergeBehavior folds a snapshot into the stored counters with max/OR
// semantics in a single statement, so a trailing page-unload report racing
// an earlier periodic report can never lower a value.
func (r *LeadRepository) MergeBehavior(ctx context.Context, id string, snap entity.BehaviorSnapshot) (*entity.Lead, error) {
	query := `
		UPDATE leads SET
			time_on_site_ms = GREATEST(time_on_site_ms, $2),
			scroll_depth_pct = GREATEST(scroll_depth_pct, $3),
			page_views = GREATEST(page_views, $4),
			click_throughs = GREATEST(click_throughs, $5),
			price_page_visits = GREATEST(price_page_visits, $6),
			checkout_started = checkout_started OR $7,
			checkout_completed = checkout_completed OR $8,
			checkout_started_at = LEAST(checkout_started_at, $9),
			updated_at = NOW()
		WHERE id = $1
	`

	var startedAt *time.Time
	if snap.CheckoutStartedAt != nil {
		startedAt = snap.CheckoutStartedAt
	}

	result, err := r.DB.ExecContext(ctx, query,
		id,
		snap.TimeOnSiteMs,
		snap.ScrollDepthPct,
		snap.PageViews,
		snap.ClickThroughs,
		snap.PricePageVisits,
		snap.CheckoutStarted,
		snap.CheckoutCompleted,
		startedAt,
	)
	if err != nil {
		return nil, err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, entity.ErrLeadNotFound
	}

	return r.GetByID(ctx, id)
}

// MarkTriggerFired is the durable at-most-once marker. The composite
// primary key makes the insert race-safe: exactly one caller sees a row
// inserted, every other caller gets false.
func (r *LeadRepository) MarkTriggerFired(ctx context.Context, id string, t entity.TriggerType) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		INSERT INTO lead_triggers (lead_id, trigger_type, fired_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (lead_id, trigger_type) DO NOTHING
	`, id, string(t))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
