// Package model defines the core CRM entities shared across the CLI,
// store, importer, and statistics layers.
package model

import "time"

// LeadStatus represents a lead's position in the sales pipeline.
type LeadStatus string

const (
	StatusToContact      LeadStatus = "to_contact"
	StatusAppointmentSet LeadStatus = "appointment_set"
	StatusFollowUp       LeadStatus = "follow_up"
	StatusWon            LeadStatus = "won"
	StatusLost           LeadStatus = "lost"
)

// AllStatuses lists every valid lead status in pipeline order.
var AllStatuses = []LeadStatus{
	StatusToContact,
	StatusAppointmentSet,
	StatusFollowUp,
	StatusWon,
	StatusLost,
}

// IsActive reports whether the lead is still being worked
// (not yet won or lost).
func (s LeadStatus) IsActive() bool {
	return s == StatusToContact || s == StatusAppointmentSet || s == StatusFollowUp
}

// IsWon reports whether the lead converted.
func (s LeadStatus) IsWon() bool { return s == StatusWon }

// Valid reports whether s is a known status.
func (s LeadStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// LeadPriority is the manually assigned priority flag. It is independent
// of the computed score.
type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityNormal LeadPriority = "normal"
	PriorityHigh   LeadPriority = "high"
)

// Valid reports whether p is a known priority.
func (p LeadPriority) Valid() bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// EstablishmentTypes is the fixed set of business types tracked by the CRM.
var EstablishmentTypes = []string{
	"bakery",
	"restaurant",
	"pizzeria",
	"fishmonger",
	"drycleaner",
	"butcher",
}

// ValidEstablishmentType reports whether t is one of the tracked types.
func ValidEstablishmentType(t string) bool {
	for _, v := range EstablishmentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Lead is a prospective business tracked through the sales pipeline.
// All optional attributes are pointers; absence means the signal is
// simply unknown, never zero.
type Lead struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          *string      `json:"type,omitempty"`
	Address       *string      `json:"address,omitempty"`
	Website       *string      `json:"website,omitempty"`
	Phone         *string      `json:"phone,omitempty"`
	Email         *string      `json:"email,omitempty"`
	Rating        *float64     `json:"rating,omitempty"`
	ReviewCount   *int         `json:"review_count,omitempty"`
	AvgTicket     *float64     `json:"avg_ticket,omitempty"`
	Status        LeadStatus   `json:"status"`
	Priority      LeadPriority `json:"priority"`
	SalespersonID *string      `json:"salesperson_id,omitempty"`
	SearchCity    *string      `json:"search_city,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// HasWebsite reports whether the lead has a non-empty website URL.
func (l *Lead) HasWebsite() bool { return l.Website != nil && *l.Website != "" }

// HasPhone reports whether the lead has a non-empty phone number.
func (l *Lead) HasPhone() bool { return l.Phone != nil && *l.Phone != "" }

// HasEmail reports whether the lead has a non-empty email address.
func (l *Lead) HasEmail() bool { return l.Email != nil && *l.Email != "" }
