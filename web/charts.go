package web

import (
	"fmt"
	"html"
	"io"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"

	"election-dashboard/models"
	"election-dashboard/services"
)

const (
	chartHeight   = 420
	chartMinWidth = 640
	barWidth      = 24
	barSpacing    = 8
)

// Chart names served under /charts/{name}.svg.
const (
	ChartConstituency = models.SectionConstituency
	ChartParty        = models.SectionParty
	ChartMargin       = models.SectionMargin
	ChartTurnout      = models.SectionTurnout
	ChartState        = models.SectionState
)

var chartNames = []string{ChartConstituency, ChartParty, ChartMargin, ChartTurnout, ChartState}

func chartWidth(bars int) int {
	w := 160 + bars*(barWidth+barSpacing)
	if w < chartMinWidth {
		return chartMinWidth
	}
	return w
}

// palette assigns each key a stable color in first-seen order.
type palette struct {
	index map[string]int
}

func newPalette() *palette { return &palette{index: make(map[string]int)} }

func (p *palette) style(key string) chart.Style {
	i, ok := p.index[key]
	if !ok {
		i = len(p.index)
		p.index[key] = i
	}
	c := chart.GetDefaultColor(i)
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// renderPlaceholder writes a small SVG carrying msg, used when a chart has
// nothing to plot.
func renderPlaceholder(w io.Writer, msg string) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="80"><text x="16" y="44" font-family="sans-serif" font-size="14" fill="#666">%s</text></svg>`,
		chartMinWidth, html.EscapeString(msg))
	return err
}

func renderBars(w io.Writer, title string, values []chart.Value, emptyMsg string) error {
	maxV := 0.0
	for _, v := range values {
		if v.Value > maxV {
			maxV = v.Value
		}
	}
	if len(values) == 0 || maxV <= 0 {
		return renderPlaceholder(w, emptyMsg)
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      chartWidth(len(values)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 120}},
		XAxis:      chart.Style{TextRotationDegrees: 60},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: maxV * 1.05},
			ValueFormatter: votesFormatter,
		},
		Bars: values,
	}
	return bc.Render(chart.SVG, w)
}

func renderStacked(w io.Writer, title string, bars []chart.StackedBar, emptyMsg string) error {
	kept := make([]chart.StackedBar, 0, len(bars))
	for _, b := range bars {
		total := 0.0
		for _, v := range b.Values {
			total += v.Value
		}
		if total > 0 {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return renderPlaceholder(w, emptyMsg)
	}

	sbc := chart.StackedBarChart{
		Title:      title,
		Width:      chartWidth(len(kept)),
		Height:     chartHeight,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 120}},
		XAxis:      chart.Style{TextRotationDegrees: 60},
		YAxis:      chart.Style{Hidden: true},
		Bars:       kept,
	}
	return sbc.Render(chart.SVG, w)
}

// ConstituencyChart stacks each constituency's votes by party.
func ConstituencyChart(w io.Writer, bars []models.ConstituencyBar) error {
	colors := newPalette()
	var order []string
	byPC := make(map[string][]chart.Value)
	for _, b := range bars {
		if _, ok := byPC[b.PCName]; !ok {
			order = append(order, b.PCName)
			byPC[b.PCName] = nil
		}
		if b.TotalVotes <= 0 {
			continue
		}
		byPC[b.PCName] = append(byPC[b.PCName], chart.Value{
			Label: b.Party,
			Value: b.TotalVotes,
			Style: colors.style(b.Party),
		})
	}

	stacked := make([]chart.StackedBar, 0, len(order))
	for _, pc := range order {
		stacked = append(stacked, chart.StackedBar{Name: pc, Width: barWidth, Values: byPC[pc]})
	}
	return renderStacked(w, "Total Votes by Constituency and Party", stacked, noticeFor(models.SectionConstituency))
}

// PartyChart is a pie of party vote shares.
func PartyChart(w io.Writer, totals []models.PartyTotal) error {
	if len(totals) == 0 {
		return renderPlaceholder(w, noticeFor(models.SectionParty))
	}
	colors := newPalette()
	values := make([]chart.Value, 0, len(totals))
	for _, p := range totals {
		values = append(values, chart.Value{Label: p.Party, Value: p.TotalVotes, Style: colors.style(p.Party)})
	}
	pc := chart.PieChart{
		Title:  "Total Votes by Party",
		Width:  chartMinWidth,
		Height: chartMinWidth,
		Values: values,
	}
	return pc.Render(chart.SVG, w)
}

// MarginChart draws the margin histogram.
func MarginChart(w io.Writer, bins []models.MarginBin) error {
	values := make([]chart.Value, 0, len(bins))
	for _, b := range bins {
		values = append(values, chart.Value{
			Label: humanize.Comma(int64(b.Lower)),
			Value: float64(b.Count),
		})
	}
	return renderBars(w, "Distribution of Winning Margins", values, noticeFor(models.SectionMargin))
}

// TurnoutChart draws total votes per constituency.
func TurnoutChart(w io.Writer, totals []models.ConstituencyTotal) error {
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		values = append(values, chart.Value{Label: t.PCName, Value: t.TotalVotes})
	}
	return renderBars(w, "Total Votes by Constituency", values, noticeFor(models.SectionTurnout))
}

// StateChart stacks each state's votes by party.
func StateChart(w io.Writer, totals []models.StatePartyTotal) error {
	colors := newPalette()
	var order []string
	byState := make(map[string][]chart.Value)
	for _, t := range totals {
		if _, ok := byState[t.State]; !ok {
			order = append(order, t.State)
			byState[t.State] = nil
		}
		if t.TotalVotes <= 0 {
			continue
		}
		byState[t.State] = append(byState[t.State], chart.Value{
			Label: t.Party,
			Value: t.TotalVotes,
			Style: colors.style(t.Party),
		})
	}

	stacked := make([]chart.StackedBar, 0, len(order))
	for _, s := range order {
		stacked = append(stacked, chart.StackedBar{Name: s, Width: barWidth * 2, Values: byState[s]})
	}
	return renderStacked(w, "Votes by State and Party", stacked, noticeFor(models.SectionState))
}

func noticeFor(section string) string {
	switch section {
	case models.SectionParty:
		return services.NoticeNoPartyData
	case models.SectionMargin:
		return services.NoticeNoMargins
	case models.SectionTurnout:
		return services.NoticeNoTurnout
	case models.SectionState:
		return services.NoticeNoStateSummary
	default:
		return services.NoticeNoData
	}
}

func votesFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}
