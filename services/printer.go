package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"election-dashboard/models"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B388FF"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD54F"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
)

const printWidth = 60

// Print writes a console rendering of the report.
func (s *InsightService) Print(w io.Writer, r *models.DashboardReport) {
	sep := strings.Repeat("═", printWidth)
	thin := strings.Repeat("─", printWidth)

	fmt.Fprintf(w, "\n%s\n", bannerStyle.Render(sep))
	fmt.Fprintf(w, "%s\n", bannerStyle.Render("  ELECTION RESULTS 2024"))
	fmt.Fprintf(w, "%s\n\n", bannerStyle.Render(sep))

	section := func(title string) {
		fmt.Fprintf(w, "%s\n  %s\n", headingStyle.Render("  "+title), thin)
	}

	section("Selection")
	fmt.Fprintf(w, "  State      : %s\n", valueStyle.Render(r.Selection.State))
	fmt.Fprintf(w, "  Parties    : %s\n", strings.Join(r.Selection.Parties, ", "))
	fmt.Fprintf(w, "  Candidates : %s\n", truncate(strings.Join(r.Selection.Candidates, ", "), 46))
	fmt.Fprintf(w, "  Rows       : %s\n\n", valueStyle.Render(humanize.Comma(int64(r.RowCount))))

	section("Party Performance")
	if msg := r.Notice(models.SectionParty); msg != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(msg))
	} else {
		for _, p := range r.PartyPerformance {
			fmt.Fprintf(w, "  %-40s %15s\n", truncate(p.Party, 38), formatVotes(p.TotalVotes))
		}
	}
	fmt.Fprintln(w)

	section("Voter Turnout by Constituency")
	if msg := r.Notice(models.SectionTurnout); msg != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(msg))
	} else {
		for _, c := range r.Turnout {
			fmt.Fprintf(w, "  %-40s %15s\n", truncate(c.PCName, 38), formatVotes(c.TotalVotes))
		}
	}
	fmt.Fprintln(w)

	section("Winning Margins")
	if r.MarginSummary == nil {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(NoticeNoMargins))
	} else {
		m := r.MarginSummary
		fmt.Fprintf(w, "  Margins : %s\n", valueStyle.Render(humanize.Comma(int64(m.Count))))
		fmt.Fprintf(w, "  Minimum : %s\n", formatVotes(m.Min))
		fmt.Fprintf(w, "  Median  : %s\n", formatVotes(m.Median))
		fmt.Fprintf(w, "  Mean    : %s\n", humanize.CommafWithDigits(m.Mean, 1))
		fmt.Fprintf(w, "  Maximum : %s\n", formatVotes(m.Max))
	}

	fmt.Fprintf(w, "\n%s\n\n", bannerStyle.Render(sep))
}

func formatVotes(v float64) string {
	return humanize.Commaf(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
