package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/budget"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

const dateLayout = "2006-01-02"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)

	themeColors = map[status.Color]lipgloss.Color{
		status.ColorEmerald: lipgloss.Color("#10b981"),
		status.ColorRed:     lipgloss.Color("#ef4444"),
		status.ColorAmber:   lipgloss.Color("#f59e0b"),
		status.ColorOrange:  lipgloss.Color("#f97316"),
		status.ColorBlue:    lipgloss.Color("#3b82f6"),
		status.ColorSky:     lipgloss.Color("#0ea5e9"),
		status.ColorIndigo:  lipgloss.Color("#6366f1"),
		status.ColorPurple:  lipgloss.Color("#a855f7"),
		status.ColorRose:    lipgloss.Color("#f43f5e"),
		status.ColorSlate:   lipgloss.Color("#64748b"),
	}
)

func statusCell(s status.Assignment) string {
	c, known := themeColors[s.Theme().Color]
	if !known {
		return s.Label()
	}
	return lipgloss.NewStyle().Foreground(c).Render(s.Label())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderAssignments(w io.Writer, page *assignment.Page) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No assignments match."))
		return
	}

	t := newTable("ID", "PROPOSAL", "STATUS", "EARLIEST DUE", "EVALUATORS")
	for _, g := range page.Items {
		due := "-"
		if !g.EarliestDue.IsZero() {
			due = g.EarliestDue.Format(dateLayout)
		}
		t.Row(
			strconv.FormatInt(g.ProposalID, 10),
			g.ProposalTitle,
			statusCell(g.Status),
			due,
			memberSummary(g.Members),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Page %d of %d (%d proposals)\n", page.Page, page.TotalPages, page.TotalItems)
}

func memberSummary(members []assignment.Member) string {
	lines := make([]string, 0, len(members))
	for _, m := range members {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Name, m.Status.Label()))
	}
	return strings.Join(lines, "\n")
}

func renderBudget(w io.Writer, proposalID int64, s *budget.Summary) {
	if len(s.Sources) == 0 {
		fmt.Fprintf(w, "Proposal %d has no budget lines.\n", proposalID)
		return
	}

	t := newTable("SOURCE", "PS", "MOOE", "CO", "TOTAL")
	for _, src := range s.Sources {
		t.Row(src.Source, src.PS, src.MOOE, src.CO, src.Total)
	}
	t.Row("Total", "", "", "", s.Total)
	fmt.Fprintln(w, t.Render())
}
