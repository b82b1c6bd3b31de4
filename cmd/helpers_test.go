package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

func TestScoreRows(t *testing.T) {
	typ := "bakery"
	city := "Lyon"
	leads := []model.Lead{
		{ID: "1", Name: "A", Type: &typ, SearchCity: &city,
			Status: model.StatusToContact, Priority: model.PriorityNormal},
	}

	rows := scoreRows(leads)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Name)
	assert.Equal(t, "bakery", rows[0].Type)
	assert.Equal(t, "Lyon", rows[0].City)
	assert.Equal(t, 0, rows[0].Score)
	assert.Equal(t, "low", string(rows[0].Tier.Category))
}

func TestWriteScoreCSV(t *testing.T) {
	rating := 4.6
	leads := []model.Lead{
		{ID: "1", Name: "Name, With Comma", Rating: &rating,
			Status: model.StatusWon, Priority: model.PriorityHigh},
	}

	var buf bytes.Buffer
	require.NoError(t, writeScoreCSV(&buf, scoreRows(leads)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,type,city,score,tier,status,priority", lines[0])
	assert.Contains(t, lines[1], `"Name, With Comma"`)
	assert.Contains(t, lines[1], "won")
}

func TestWriteScoreTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoreTable(&buf, scoreRows([]model.Lead{
		{ID: "1", Name: "A", Status: model.StatusToContact},
	})))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "A")
}
