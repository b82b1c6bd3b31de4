package model

import "time"

// AppointmentStatus represents the state of a scheduled appointment.
type AppointmentStatus string

const (
	AppointmentPlanned   AppointmentStatus = "planned"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentPostponed AppointmentStatus = "postponed"
	AppointmentDone      AppointmentStatus = "done"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// IsUpcoming reports whether the appointment is still expected to happen.
func (s AppointmentStatus) IsUpcoming() bool {
	return s == AppointmentPlanned || s == AppointmentConfirmed
}

// Appointment links a lead and a salesperson at a scheduled date and time.
type Appointment struct {
	ID            string            `json:"id"`
	LeadID        string            `json:"lead_id"`
	SalespersonID string            `json:"salesperson_id"`
	Date          time.Time         `json:"date"`
	Time          string            `json:"time"` // "HH:MM", display only
	Status        AppointmentStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}
