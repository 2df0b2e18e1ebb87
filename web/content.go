package web

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"election-dashboard/models"
)

const pageTitle = "2024 Election Results Dashboard"

// Section is one block of the dashboard page.
type Section struct {
	Key         string
	Heading     string
	Description template.HTML
	Chart       bool
}

var sectionSource = []struct {
	key, heading, markdown string
	chart                  bool
}{
	{models.SectionConstituency, "Constituency-wise Election Results",
		"#### Visualize the election results for each constituency within the selected state.", true},
	{models.SectionParty, "Party Performance Analysis",
		"#### Analyze the performance of each party based on total votes.", true},
	{models.SectionMargin, "Winning Margin Distribution",
		"#### Explore the distribution of winning margins.", true},
	{models.SectionTurnout, "Voter Turnout Analysis",
		"#### Analyze voter turnout by constituency.", true},
	{models.SectionWinners, "Winning Candidate Profile",
		"#### View the profile of winning candidates.", false},
	{models.SectionState, "State-wise Summary",
		"#### Get a summary of election results by state.", true},
}

const sidebarMarkdown = "Explore the 2024 election results by **state**, **constituency**, **party**, and more."

// renderMarkdown converts trusted, compiled-in markdown to HTML.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

func buildSections() []Section {
	out := make([]Section, 0, len(sectionSource))
	for _, s := range sectionSource {
		out = append(out, Section{
			Key:         s.key,
			Heading:     s.heading,
			Description: renderMarkdown(s.markdown),
			Chart:       s.chart,
		})
	}
	return out
}
