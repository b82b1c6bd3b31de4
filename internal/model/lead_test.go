package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadStatus_IsActive(t *testing.T) {
	assert.True(t, StatusToContact.IsActive())
	assert.True(t, StatusAppointmentSet.IsActive())
	assert.True(t, StatusFollowUp.IsActive())
	assert.False(t, StatusWon.IsActive())
	assert.False(t, StatusLost.IsActive())
}

func TestLeadStatus_Valid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, LeadStatus("gagne").Valid())
	assert.False(t, LeadStatus("").Valid())
}

func TestLead_ContactHelpers(t *testing.T) {
	empty := ""
	url := "https://boulangerie-dupont.fr"

	l := Lead{}
	assert.False(t, l.HasWebsite())
	assert.False(t, l.HasPhone())
	assert.False(t, l.HasEmail())

	l.Website = &empty
	assert.False(t, l.HasWebsite())

	l.Website = &url
	assert.True(t, l.HasWebsite())
}

func TestProfile_FullName(t *testing.T) {
	p := Profile{FirstName: "Alice", LastName: "Martin"}
	assert.Equal(t, "Alice Martin", p.FullName())

	assert.Equal(t, "Alice", (&Profile{FirstName: "Alice"}).FullName())
	assert.Equal(t, "Martin", (&Profile{LastName: "Martin"}).FullName())
}

func TestValidEstablishmentType(t *testing.T) {
	assert.True(t, ValidEstablishmentType("bakery"))
	assert.True(t, ValidEstablishmentType("butcher"))
	assert.False(t, ValidEstablishmentType("Bakery"))
	assert.False(t, ValidEstablishmentType("garage"))
}
