package report

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/NewsLens/internal/database"
)

// Markdown renders the report as a Markdown document.
func Markdown(r *Report) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("# NewsLens statistics\n\nTotal analyses: **%d**", r.Total))

	sections = append(sections, fmt.Sprintf(
		"## Sentiment\n\n- Positive: %d\n- Neutral: %d\n- Negative: %d",
		r.Sentiments.Positive, r.Sentiments.Neutral, r.Sentiments.Negative,
	))

	sections = append(sections, "## Top keywords\n\n"+numbered(r.TopKeywords))

	var months []string
	for _, m := range r.MonthlyTrend {
		months = append(months, fmt.Sprintf("- %s: %d", database.FormatMonthDisplay(m.Label), m.Count))
	}
	sections = append(sections, "## Monthly trend\n\n"+orNone(months))

	var cats []string
	for _, c := range r.Categories {
		cats = append(cats, fmt.Sprintf("- %s: %d", c.Label, c.Count))
	}
	sections = append(sections, "## Categories\n\n"+orNone(cats))

	table := []string{
		"| Channel | Positive | Neutral | Negative |",
		"|---|---:|---:|---:|",
	}
	for _, ch := range r.Channels {
		table = append(table, fmt.Sprintf("| %s | %d | %d | %d |", ch.Channel, ch.Positive, ch.Neutral, ch.Negative))
	}
	sections = append(sections, "## Channel comparison\n\n"+strings.Join(table, "\n"))

	return strings.Join(sections, "\n\n") + "\n"
}

func numbered(counts []Count) string {
	var lines []string
	for i, c := range counts {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, c.Label, c.Count))
	}
	return orNone(lines)
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "_No data yet._"
	}
	return strings.Join(lines, "\n")
}
