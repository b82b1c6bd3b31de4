package importer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

type field int

const (
	fieldName field = iota
	fieldType
	fieldAddress
	fieldCity
	fieldPhone
	fieldEmail
	fieldWebsite
	fieldRating
	fieldReviews
	fieldTicket
	fieldStatus
	fieldPriority
	fieldNotes
	fieldSalesperson
)

// fieldAliases maps normalized header and JSON key spellings to lead
// fields. Prospecting sheets come in French and English, sometimes
// with several spellings in the same file.
var fieldAliases = map[string]field{
	"name": fieldName, "nom": fieldName, "business_name": fieldName,

	"type": fieldType, "type_commerce": fieldType, "business_type": fieldType,
	"categorie": fieldType, "category": fieldType,

	"address": fieldAddress, "adresse": fieldAddress,

	"city": fieldCity, "ville": fieldCity, "ville_recherche": fieldCity,
	"search_city": fieldCity,

	"phone": fieldPhone, "telephone": fieldPhone,

	"email": fieldEmail,

	"website": fieldWebsite, "site_web": fieldWebsite, "site": fieldWebsite,

	"rating": fieldRating, "note": fieldRating, "note_google": fieldRating,

	"reviews": fieldReviews, "review_count": fieldReviews,
	"nb_avis": fieldReviews, "nombre_avis": fieldReviews,

	"avg_ticket": fieldTicket, "panier_moyen": fieldTicket,
	"average_ticket": fieldTicket,

	"status": fieldStatus, "statut": fieldStatus,

	"priority": fieldPriority, "priorite": fieldPriority,

	"notes": fieldNotes, "notes_internes": fieldNotes,

	"salesperson_id": fieldSalesperson, "commercial_id": fieldSalesperson,
}

// preferredAliases marks the spelling that wins when a record carries
// two aliases of the same field.
var preferredAliases = map[string]bool{
	"type_commerce":   true,
	"ville_recherche": true,
	"note":            true,
	"nombre_avis":     true,
	"notes_internes":  true,
}

// typeAliases maps source business-type labels to canonical types.
var typeAliases = map[string]string{
	"boulangerie": "bakery", "bakery": "bakery",
	"restaurant": "restaurant",
	"pizzeria":   "pizzeria",
	"poissonnerie": "fishmonger", "fishmonger": "fishmonger",
	"pressing": "drycleaner", "drycleaner": "drycleaner", "dry_cleaner": "drycleaner",
	"boucherie": "butcher", "butcher": "butcher",
}

var statusAliases = map[string]model.LeadStatus{
	"to_contact": model.StatusToContact, "a_contacter": model.StatusToContact,
	"appointment_set": model.StatusAppointmentSet, "rdv_pris": model.StatusAppointmentSet,
	"follow_up": model.StatusFollowUp, "relance": model.StatusFollowUp,
	"won": model.StatusWon, "gagne": model.StatusWon,
	"lost": model.StatusLost, "perdu": model.StatusLost,
}

var priorityAliases = map[string]model.LeadPriority{
	"low": model.PriorityLow, "basse": model.PriorityLow,
	"normal": model.PriorityNormal, "normale": model.PriorityNormal,
	"high": model.PriorityHigh, "haute": model.PriorityHigh,
}

var accentStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldKey lowercases, strips accents, and collapses whitespace to
// underscores so that "Panier Moyen" and "panier_moyen" match.
func foldKey(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Join(strings.Fields(folded), "_")
}

// ParseStatus folds a status label to the canonical vocabulary.
// Unknown labels fall back to the pipeline entry status.
func ParseStatus(s string) model.LeadStatus {
	if st, ok := statusAliases[foldKey(s)]; ok {
		return st
	}
	return model.StatusToContact
}

// ParsePriority folds a priority label, defaulting to normal.
func ParsePriority(s string) model.LeadPriority {
	if p, ok := priorityAliases[foldKey(s)]; ok {
		return p
	}
	return model.PriorityNormal
}

// parseNumber tolerates currency symbols, thousands separators, and
// decimal commas ("12,50 €" → 12.5). Returns nil for blank input.
func parseNumber(v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case string:
		cleaned := strings.NewReplacer(
			"€", "", "$", "", " ", "", " ", "", " ", "",
		).Replace(strings.TrimSpace(n))
		if cleaned == "" {
			return nil, nil
		}
		// A comma is a decimal separator unless a dot already serves.
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, eris.Errorf("invalid number %q", n)
		}
		return &f, nil
	default:
		return nil, eris.Errorf("invalid numeric value %v", v)
	}
}

// leadFromRecord validates one record and maps it to a lead.
func leadFromRecord(rec map[string]any) (model.Lead, error) {
	var lead model.Lead

	byField := make(map[field]any, len(rec))
	for k, v := range rec {
		key := foldKey(k)
		f, ok := fieldAliases[key]
		if !ok {
			continue
		}
		// When a record carries two aliases of one field, the
		// preferred spelling wins regardless of map order.
		if _, exists := byField[f]; exists && !preferredAliases[key] {
			continue
		}
		byField[f] = v
	}

	name := asString(byField[fieldName])
	if name == "" {
		return lead, eris.New("missing required field: name")
	}
	lead.Name = name

	if raw := asString(byField[fieldType]); raw != "" {
		canonical, ok := typeAliases[foldKey(raw)]
		if !ok {
			return lead, eris.Errorf("invalid type %q", raw)
		}
		lead.Type = &canonical
	}

	lead.Address = optString(byField[fieldAddress])
	lead.SearchCity = optString(byField[fieldCity])
	lead.Phone = optString(byField[fieldPhone])
	lead.Email = optString(byField[fieldEmail])
	lead.Website = optString(byField[fieldWebsite])
	lead.Notes = optString(byField[fieldNotes])
	lead.SalespersonID = optString(byField[fieldSalesperson])

	rating, err := parseNumber(byField[fieldRating])
	if err != nil {
		return lead, eris.Wrap(err, "rating")
	}
	if rating != nil {
		if *rating < 0 || *rating > 5 {
			return lead, eris.Errorf("rating %g out of range 0-5", *rating)
		}
		lead.Rating = rating
	}

	reviews, err := parseNumber(byField[fieldReviews])
	if err != nil {
		return lead, eris.Wrap(err, "review count")
	}
	if reviews != nil {
		n := int(*reviews)
		if n < 0 {
			return lead, eris.Errorf("review count %d is negative", n)
		}
		lead.ReviewCount = &n
	}

	ticket, err := parseNumber(byField[fieldTicket])
	if err != nil {
		return lead, eris.Wrap(err, "average ticket")
	}
	if ticket != nil {
		if *ticket < 0 {
			return lead, eris.Errorf("average ticket %g is negative", *ticket)
		}
		lead.AvgTicket = ticket
	}

	lead.Status = ParseStatus(asString(byField[fieldStatus]))
	lead.Priority = ParsePriority(asString(byField[fieldPriority]))
	return lead, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func optString(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}
