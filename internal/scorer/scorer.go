// Package scorer computes a deterministic 0-100 priority score for leads
// from their rating, review volume, average ticket, and contact
// completeness, and maps scores to discrete priority tiers.
package scorer

import "github.com/eco-locaux/prospect-cli/internal/model"

// Maximum contribution of each scoring dimension. The four maxima sum
// to 100, so a total score always lands in [0, 100].
const (
	MaxRatingScore       = 25
	MaxReviewScore       = 35
	MaxTicketScore       = 25
	MaxCompletenessScore = 15
)

// Breakdown exposes the per-dimension composition of a lead's score.
type Breakdown struct {
	Total        int       `json:"total"`
	Rating       Component `json:"rating"`
	Reviews      Component `json:"reviews"`
	Ticket       Component `json:"ticket"`
	Completeness Component `json:"completeness"`
}

// Component is one scored dimension and its ceiling.
type Component struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// Score computes the lead's priority score. It is a pure function of the
// lead's rating, review count, average ticket, and contact fields; status,
// priority flag, and timestamps never influence it. Missing or negative
// inputs contribute zero, so the result is always in [0, 100].
func Score(lead *model.Lead) int {
	return ratingScore(lead.Rating) +
		reviewScore(lead.ReviewCount) +
		ticketScore(lead.AvgTicket) +
		completenessScore(lead)
}

// ScoreBreakdown returns the same computation as Score, broken out per
// dimension for display. Total always equals Score(lead).
func ScoreBreakdown(lead *model.Lead) Breakdown {
	rating := ratingScore(lead.Rating)
	reviews := reviewScore(lead.ReviewCount)
	ticket := ticketScore(lead.AvgTicket)
	completeness := completenessScore(lead)

	return Breakdown{
		Total:        rating + reviews + ticket + completeness,
		Rating:       Component{Score: rating, Max: MaxRatingScore},
		Reviews:      Component{Score: reviews, Max: MaxReviewScore},
		Ticket:       Component{Score: ticket, Max: MaxTicketScore},
		Completeness: Component{Score: completeness, Max: MaxCompletenessScore},
	}
}

// ratingScore buckets the external rating (0-5 scale). Buckets are
// half-open: a value earns the highest bucket it meets or exceeds.
func ratingScore(rating *float64) int {
	if rating == nil || *rating <= 0 {
		return 0
	}
	r := *rating
	switch {
	case r >= 4.5:
		return 25
	case r >= 4.0:
		return 20
	case r >= 3.5:
		return 15
	case r >= 3.0:
		return 10
	default:
		return 5
	}
}

// reviewScore buckets the external review count. Note the top bucket is
// strictly greater than 200: exactly 200 reviews earns 30.
func reviewScore(count *int) int {
	if count == nil || *count <= 0 {
		return 0
	}
	n := *count
	switch {
	case n > 200:
		return 35
	case n >= 100:
		return 30
	case n >= 50:
		return 25
	case n >= 20:
		return 18
	case n >= 10:
		return 12
	case n >= 5:
		return 7
	default:
		return 2
	}
}

// ticketScore buckets the average ticket value.
func ticketScore(ticket *float64) int {
	if ticket == nil || *ticket <= 0 {
		return 0
	}
	t := *ticket
	switch {
	case t >= 40:
		return 25
	case t >= 25:
		return 20
	case t >= 15:
		return 15
	case t >= 5:
		return 10
	default:
		return 5
	}
}

// completenessScore rewards each contact channel independently: website 8,
// phone 4, email 3.
func completenessScore(lead *model.Lead) int {
	var score int
	if lead.HasWebsite() {
		score += 8
	}
	if lead.HasPhone() {
		score += 4
	}
	if lead.HasEmail() {
		score += 3
	}
	return score
}
