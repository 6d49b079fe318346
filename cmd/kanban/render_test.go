package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kanban_backend/internal/client/api"
	"kanban_backend/internal/client/board"
)

func TestRenderBoard(t *testing.T) {
	lanes := []board.Lane{
		{Status: "Todo", Tickets: []api.Ticket{
			{ID: 1, Name: "Write docs", AssignedUser: &api.AssignedUser{ID: 2, Username: "SunnyScribe"}},
		}},
		{Status: "In Progress", Tickets: []api.Ticket{}},
		{Status: "Done", Tickets: []api.Ticket{{ID: 3, Name: "Ship it"}}},
	}

	out := renderBoard(lanes)
	for _, want := range []string{"Todo (1)", "In Progress (0)", "Done (1)", "#1", "Write docs", "@SunnyScribe", "Ship it", "Unassigned", "no tickets"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderTicket(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	out := renderTicket(&api.Ticket{ID: 7, Name: "n", Description: "desc", Status: "In Progress", CreatedAt: ts, UpdatedAt: ts})

	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "desc")
	assert.Contains(t, out, "2025-03-01 09:30")
	assert.Contains(t, out, "Unassigned")
}

func TestRenderUsers(t *testing.T) {
	assert.Contains(t, renderUsers(nil), "no users")
	out := renderUsers([]api.User{{ID: 1, Username: "JollyGuru"}, {ID: 2, Username: "RadiantComet"}})
	assert.Contains(t, out, "JollyGuru")
	assert.Contains(t, out, "RadiantComet")
}
