package scorer

import "github.com/rotisserie/eris"

// TierCategory is a discrete priority bucket derived from a score.
type TierCategory string

const (
	TierUrgent    TierCategory = "urgent"
	TierImportant TierCategory = "important"
	TierMedium    TierCategory = "medium"
	TierLow       TierCategory = "low"
)

// Tier describes a score bucket for display and filtering.
type Tier struct {
	Category TierCategory `json:"category"`
	Label    string       `json:"label"`
	Marker   string       `json:"marker"`
}

// ParseTierCategory validates a user-supplied tier name.
func ParseTierCategory(s string) (TierCategory, error) {
	switch TierCategory(s) {
	case TierUrgent, TierImportant, TierMedium, TierLow:
		return TierCategory(s), nil
	default:
		return "", eris.Errorf("unknown tier %q (want urgent, important, medium, or low)", s)
	}
}

// TierFor maps a score to its priority tier. Boundaries are inclusive at
// the lower bound of each bucket: 80 is urgent, 79 is important.
func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return Tier{Category: TierUrgent, Label: "Urgent priority", Marker: "****"}
	case score >= 60:
		return Tier{Category: TierImportant, Label: "Important priority", Marker: "***"}
	case score >= 40:
		return Tier{Category: TierMedium, Label: "Medium priority", Marker: "**"}
	default:
		return Tier{Category: TierLow, Label: "Low priority", Marker: "*"}
	}
}
