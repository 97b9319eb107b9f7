package scoring

import "github.com/clearpathlegal/growth-engine/internal/entity"

// Segment, pricing tier and sequence assignment are first-match-wins rule
// lists evaluated top to bottom. The order IS the tie-break: a lead can
// satisfy several conditions at once and the earlier rule always wins,
// because segment drives message content, not just funnel position.

type segmentRule struct {
	segment entity.Segment
	match   func(a entity.LeadAttributes, score int) bool
}

var segmentRules = []segmentRule{
	{entity.SegmentOutOfArea, func(a entity.LeadAttributes, _ int) bool {
		return a.County == CountyOutOfState
	}},
	{entity.SegmentUrgentHighValue, func(a entity.LeadAttributes, _ int) bool {
		return a.Urgency == UrgencyImmediate && highDemandCategory[a.Category]
	}},
	{entity.SegmentRegulatedProfessional, func(a entity.LeadAttributes, _ int) bool {
		_, regulated := industryBonus[a.Industry]
		return regulated || a.SeekingLicense
	}},
	{entity.SegmentCareerAdvancer, func(a entity.LeadAttributes, _ int) bool {
		return a.Employment == "job_seeking" || a.Employment == "student"
	}},
	{entity.SegmentSecondChance, func(a entity.LeadAttributes, _ int) bool {
		return a.RepeatFiler || a.PriorFailedFiling
	}},
	{entity.SegmentGeneralRegional, func(_ entity.LeadAttributes, score int) bool {
		return score >= 40
	}},
	{entity.SegmentLowIntent, func(entity.LeadAttributes, int) bool { return true }},
}

func segmentFor(attrs entity.LeadAttributes, score int) entity.Segment {
	for _, rule := range segmentRules {
		if rule.match(attrs, score) {
			return rule.segment
		}
	}
	return entity.SegmentLowIntent
}

type pricingRule struct {
	tier  entity.PricingTier
	match func(s entity.Segment, score int) bool
}

var pricingRules = []pricingRule{
	{entity.PricingPremium, func(s entity.Segment, score int) bool {
		return (s == entity.SegmentUrgentHighValue || s == entity.SegmentRegulatedProfessional) && score >= 70
	}},
	{entity.PricingStandard, func(s entity.Segment, score int) bool {
		return s != entity.SegmentOutOfArea && score >= 45
	}},
	{entity.PricingBudget, func(entity.Segment, int) bool { return true }},
}

func pricingTierFor(segment entity.Segment, score int) entity.PricingTier {
	for _, rule := range pricingRules {
		if rule.match(segment, score) {
			return rule.tier
		}
	}
	return entity.PricingBudget
}

// Outreach sequences.
const (
	SequenceFastTrack    = "fasttrack-3day"
	SequenceProfessional = "professional-5day"
	SequenceHotFollowUp  = "hot-followup-7day"
	SequenceNurture      = "nurture-14day"
	SequenceLongTerm     = "longterm-30day"
	SequenceReferralOut  = "out-of-area-referral"
)

type sequenceRule struct {
	sequence string
	match    func(s entity.Segment, tier entity.Tier, score int) bool
}

var sequenceRules = []sequenceRule{
	{SequenceReferralOut, func(s entity.Segment, _ entity.Tier, _ int) bool {
		return s == entity.SegmentOutOfArea
	}},
	{SequenceFastTrack, func(s entity.Segment, _ entity.Tier, _ int) bool {
		return s == entity.SegmentUrgentHighValue
	}},
	{SequenceProfessional, func(s entity.Segment, _ entity.Tier, score int) bool {
		return s == entity.SegmentRegulatedProfessional && score >= 60
	}},
	{SequenceHotFollowUp, func(_ entity.Segment, tier entity.Tier, _ int) bool {
		return tier == entity.TierHot
	}},
	{SequenceNurture, func(_ entity.Segment, tier entity.Tier, _ int) bool {
		return tier == entity.TierWarm
	}},
	{SequenceLongTerm, func(entity.Segment, entity.Tier, int) bool { return true }},
}

func sequenceFor(segment entity.Segment, tier entity.Tier, score int) string {
	for _, rule := range sequenceRules {
		if rule.match(segment, tier, score) {
			return rule.sequence
		}
	}
	return SequenceLongTerm
}
