// Package scoring holds the pure award rules: medal tiers derived from
// aggregated points, and the legacy per-category rule table that maps a
// role/position/nature attribute to a fixed point value.
package scoring

// Medal tier labels.
const (
	MedalGold        = "Gold"
	MedalSilver      = "Silver"
	MedalBronze      = "Bronze"
	MedalNotEligible = "Not Eligible"
)

// Tier thresholds on a group's total points. The Bronze threshold is
// also the minimum total a validator may approve.
const (
	GoldThreshold   = 5000
	SilverThreshold = 3000
	BronzeThreshold = 1000
)

// Medal returns the tier label for a total of points. It is evaluated
// once at approval time and snapshotted; it is never recomputed.
func Medal(points int) string {
	switch {
	case points >= GoldThreshold:
		return MedalGold
	case points >= SilverThreshold:
		return MedalSilver
	case points >= BronzeThreshold:
		return MedalBronze
	default:
		return MedalNotEligible
	}
}

// Eligible reports whether a total of points clears the minimum
// approval threshold.
func Eligible(points int) bool {
	return points >= BronzeThreshold
}

// ruleTable maps (category, attribute) to the fixed point value the
// portal historically auto-scored with. Rater-assigned points supersede
// it in practice; it survives as a ceiling check on rater entries.
var ruleTable = map[string]map[string]int{
	"co-curricular": {
		"Organizer":   5,
		"Participant": 3,
		"Facilitator": 4,
	},
	"community": {
		"Local":         4,
		"National":      7,
		"International": 10,
	},
	"creative": {
		"Creator":     6,
		"Contributor": 4,
	},
	"combined": {
		"High":   8,
		"Medium": 5,
		"Low":    3,
	},
	"marshals": {
		"Lead":    5,
		"Regular": 3,
	},
	"officers": {
		"President": 7,
		"Officer":   5,
		"Member":    3,
	},
	"councils": {
		"President": 8,
		"Officer":   6,
		"Member":    4,
	},
	"athletes": {
		"Varsity": 7,
		"Regular": 5,
	},
}

// Score returns the rule-table value for a category/attribute pair, or
// 0 when either is unknown. Pure lookup, no side effects.
func Score(category, attribute string) int {
	return ruleTable[category][attribute]
}

// Ceiling returns the largest rule-table value for a category, or 0 for
// an unknown category. Useful for sanity-checking rater-entered points.
func Ceiling(category string) int {
	max := 0
	for _, v := range ruleTable[category] {
		if v > max {
			max = v
		}
	}
	return max
}

// Categories returns the category keys the rule table knows about.
func Categories() []string {
	keys := make([]string, 0, len(ruleTable))
	for k := range ruleTable {
		keys = append(keys, k)
	}
	return keys
}
