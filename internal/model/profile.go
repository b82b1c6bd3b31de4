package model

import (
	"strings"
	"time"
)

// Role distinguishes administrators from field salespeople.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSalesperson Role = "salesperson"
)

// Profile is a team member account.
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns "First Last", tolerating a missing half.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
