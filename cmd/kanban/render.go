package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kanban_backend/internal/client/api"
	"kanban_backend/internal/client/board"
)

const laneWidth = 32

var (
	laneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(laneWidth)
	laneTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	idStyle        = lipgloss.NewStyle().Faint(true)
	assigneeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Bold(true).Width(14)
)

// renderBoard lays the lanes out side by side.
func renderBoard(lanes []board.Lane) string {
	cols := make([]string, 0, len(lanes))
	for _, lane := range lanes {
		cols = append(cols, renderLane(lane))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderLane(lane board.Lane) string {
	var b strings.Builder
	b.WriteString(laneTitleStyle.Render(fmt.Sprintf("%s (%d)", lane.Status, len(lane.Tickets))))
	if len(lane.Tickets) == 0 {
		b.WriteString("\n\n" + mutedStyle.Render("no tickets"))
	}
	for _, t := range lane.Tickets {
		b.WriteString("\n\n" + renderCard(t))
	}
	return laneStyle.Render(b.String())
}

func renderCard(t api.Ticket) string {
	return idStyle.Render(fmt.Sprintf("#%d", t.ID)) + " " + t.Name + "\n" + assigneeStyle.Render(assigneeName(t))
}

func assigneeName(t api.Ticket) string {
	if t.AssignedUser == nil {
		return "Unassigned"
	}
	return "@" + t.AssignedUser.Username
}

// renderTicket prints every field of a single ticket.
func renderTicket(t *api.Ticket) string {
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", t.ID)},
		{"Name", t.Name},
		{"Status", t.Status},
		{"Assigned to", assigneeName(*t)},
		{"Description", t.Description},
		{"Created", t.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04")},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+r[1])
	}
	return strings.Join(lines, "\n")
}

func renderUsers(users []api.User) string {
	if len(users) == 0 {
		return mutedStyle.Render("no users")
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, idStyle.Width(6).Render(fmt.Sprintf("%d", u.ID))+u.Username)
	}
	return strings.Join(lines, "\n")
}
