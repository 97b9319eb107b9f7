// Package scoring converts a lead's static intake attributes into a quality
// score, tier, segment, estimated value and assigned outreach sequence.
// Score is a pure function: same attributes always produce the same result,
// and any well-typed input produces a result. Unknown enum values fall to
// the lowest bucket of their category instead of erroring.
package scoring

import (
	"math"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// Factor group sub-maximums. The design is additive-then-clamp: a single
// strong signal can lift an otherwise weak lead into warm on its own, while
// the clamp bounds the total.
const (
	tierHotThreshold  = 75
	tierWarmThreshold = 50

	penaltyRepeatFiler  = 10
	penaltyFailedFiling = 8
	penaltyOutOfArea    = 40
	bonusSeekingLicense = 6
	bonusPhoneOnFile    = 2
	bonusNameOnFile     = 1
	estimatedValueBase  = 500.0
)

// CountyOutOfState is the region value meaning "outside the service area".
// It zeroes the regional factor and carries the only penalty large enough
// to drive a score to exactly 0.
const CountyOutOfState = "out_of_state"

const (
	UrgencyImmediate   = "immediate"
	UrgencyWithinMonth = "within_month"
	UrgencyWithinYear  = "within_year"
	UrgencyExploring   = "exploring"
)

var countyPoints = map[string]int{
	"king":      25,
	"pierce":    20,
	"snohomish": 20,
	"spokane":   15,
	"clark":     15,
	"thurston":  12,
	"other_wa":  10,
}

var urgencyPoints = map[string]int{
	UrgencyImmediate:   25,
	UrgencyWithinMonth: 18,
	UrgencyWithinYear:  12,
	UrgencyExploring:   8,
}

var categoryPoints = map[string]int{
	"misdemeanor":       20,
	"gross_misdemeanor": 17,
	"drug_possession":   15,
	"felony_class_c":    12,
	"felony_class_b":    8,
	"dui":               5,
}

var employmentPoints = map[string]int{
	"job_seeking":   15,
	"employed":      10,
	"self_employed": 8,
	"student":       6,
	"unemployed":    4,
	"retired":       2,
}

var incomePoints = map[string]int{
	"75k_plus":  10,
	"50k_75k":   8,
	"30k_50k":   6,
	"under_30k": 3,
}

// Regulated industries where a clean record is a hiring or licensing
// requirement, not just a nice-to-have.
var industryBonus = map[string]int{
	"healthcare":     5,
	"education":      5,
	"finance":        5,
	"childcare":      5,
	"government":     4,
	"transportation": 3,
}

// Conviction categories with the highest conversion demand.
var highDemandCategory = map[string]bool{
	"misdemeanor":       true,
	"gross_misdemeanor": true,
	"drug_possession":   true,
}

var countyValueMult = map[string]float64{
	"king":      1.3,
	"pierce":    1.15,
	"snohomish": 1.15,
	"spokane":   1.0,
	"clark":     1.0,
	"thurston":  1.0,
	"other_wa":  0.9,
}

var urgencyValueMult = map[string]float64{
	UrgencyImmediate:   1.4,
	UrgencyWithinMonth: 1.2,
	UrgencyWithinYear:  1.0,
	UrgencyExploring:   0.8,
}

// Score derives every scoring field for a lead from its static attributes.
func Score(attrs entity.LeadAttributes) entity.ScoringResult {
	score := rawScore(attrs)

	result := entity.ScoringResult{
		Score:          score,
		Tier:           tierFor(score),
		Segment:        segmentFor(attrs, score),
		EstimatedValue: estimatedValue(attrs, score),
	}
	result.Priority = priorityFor(attrs, score)
	result.PricingTier = pricingTierFor(result.Segment, score)
	result.Sequence = sequenceFor(result.Segment, result.Tier, score)
	return result
}

func rawScore(attrs entity.LeadAttributes) int {
	score := 0
	score += factor(countyPoints, attrs.County)
	score += factor(urgencyPoints, attrs.Urgency)
	score += factor(categoryPoints, attrs.Category)
	score += factor(employmentPoints, attrs.Employment)
	score += factor(incomePoints, attrs.IncomeBand)

	if bonus, ok := industryBonus[attrs.Industry]; ok {
		score += bonus
	}
	if attrs.SeekingLicense {
		score += bonusSeekingLicense
	}
	if attrs.Phone != "" {
		score += bonusPhoneOnFile
	}
	if attrs.Name != "" {
		score += bonusNameOnFile
	}

	if attrs.RepeatFiler {
		score -= penaltyRepeatFiler
	}
	if attrs.PriorFailedFiling {
		score -= penaltyFailedFiling
	}
	if attrs.County == CountyOutOfState {
		score -= penaltyOutOfArea
	}

	score = clamp(score)

	// Only an out-of-area lead can bottom out at exactly zero; any lead in
	// the service area keeps a minimal floor.
	if score == 0 && attrs.County != CountyOutOfState {
		score = 1
	}
	return score
}

// factor resolves one attribute against its point table. Missing values
// contribute zero; unknown values score as the lowest bucket of the table.
func factor(table map[string]int, value string) int {
	if value == "" {
		return 0
	}
	if pts, ok := table[value]; ok {
		return pts
	}
	if value == CountyOutOfState {
		return 0
	}
	lowest := math.MaxInt
	for _, pts := range table {
		if pts < lowest {
			lowest = pts
		}
	}
	return lowest
}

func tierFor(score int) entity.Tier {
	switch {
	case score >= tierHotThreshold:
		return entity.TierHot
	case score >= tierWarmThreshold:
		return entity.TierWarm
	default:
		return entity.TierCold
	}
}

// estimatedValue multiplies the base value by independent regional,
// industry and urgency multipliers, then scales by score/50, so a lead
// scoring exactly 50 reproduces the unscaled product.
func estimatedValue(attrs entity.LeadAttributes, score int) float64 {
	v := estimatedValueBase
	v *= valueMult(countyValueMult, attrs.County, 0.5)
	if _, regulated := industryBonus[attrs.Industry]; regulated {
		v *= 1.25
	}
	v *= valueMult(urgencyValueMult, attrs.Urgency, 1.0)
	v *= float64(score) / 50.0

	if v < 0 {
		return 0
	}
	return math.Round(v*100) / 100
}

func valueMult(table map[string]float64, value string, fallback float64) float64 {
	if m, ok := table[value]; ok {
		return m
	}
	if value == "" {
		return 1.0
	}
	return fallback
}

func priorityFor(attrs entity.LeadAttributes, score int) entity.Priority {
	switch {
	case score >= 85, score >= 70 && attrs.Urgency == UrgencyImmediate:
		return entity.PriorityUrgent
	case score >= 70:
		return entity.PriorityHigh
	case score >= tierWarmThreshold:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
