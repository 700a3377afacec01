package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alem-hub/academic-records/internal/application/query"
	"github.com/alem-hub/academic-records/internal/domain/academic"
	"github.com/alem-hub/academic-records/pkg/timeutil"
)

// NoData is printed for an average over zero grades.
const NoData = "no data"

// RenderReport formats a full report run.
func RenderReport(report *query.Report) string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render("Academic records report"))
	b.WriteString("\n")
	b.WriteString(renderParams(report.Params))

	for _, s := range report.Sections {
		b.WriteString("\n")
		b.WriteString(RenderSection(s))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d reports in %s, run %s",
		len(report.Sections), report.Duration.Round(time.Millisecond), report.RunID)))
	b.WriteString("\n")
	return b.String()
}

// RenderSection formats one report.
func RenderSection(s query.Section) string {
	header := headerStyle.Render(fmt.Sprintf("Query %d: %s", s.Number, s.Title))

	var body string
	switch {
	case !s.Ran():
		body = skippedStyle.Render("Skipped: " + s.Skipped)
	case s.Kind == query.KindRanking:
		body = renderRanking(s.Ranking)
	case s.Kind == query.KindAverage:
		body = labelStyle.Render("Average grade: ") + valueStyle.Render(FormatAverage(s.Average))
	case s.Kind == query.KindNames:
		body = renderNames(s.Names)
	case s.Kind == query.KindGrades:
		body = renderGrades(s.Grades)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body))
}

// FormatAverage prints an average with two decimals, or NoData when absent.
func FormatAverage(avg *float64) string {
	if avg == nil {
		return NoData
	}
	return fmt.Sprintf("%.2f", *avg)
}

func renderParams(p academic.ExampleParams) string {
	rows := []struct {
		label string
		value *string
	}{
		{"Subject", p.SubjectName},
		{"Group", p.GroupName},
		{"Teacher", p.TeacherFullname},
		{"Student", p.StudentFullname},
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		value := emptyStyle.Render("none")
		if r.value != nil {
			value = *r.value
		}
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-8s", r.label))+" "+value)
	}
	return strings.Join(lines, "\n")
}

func renderRanking(rows []academic.StudentAverage) string {
	if len(rows) == 0 {
		return emptyStyle.Render("No graded students found")
	}

	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Fullname))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%2d. %-*s  %s", i+1, width, r.Fullname, valueStyle.Render(fmt.Sprintf("%.2f", r.Average)))
	}
	return strings.Join(lines, "\n")
}

func renderNames(names []string) string {
	if len(names) == 0 {
		return emptyStyle.Render("None found")
	}

	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "- " + n
	}
	return strings.Join(lines, "\n")
}

func renderGrades(grades []academic.GradeEntry) string {
	if len(grades) == 0 {
		return emptyStyle.Render("No grades found")
	}

	width := 0
	for _, g := range grades {
		width = max(width, lipgloss.Width(g.Fullname))
	}

	lines := make([]string, len(grades))
	for i, g := range grades {
		lines[i] = fmt.Sprintf("- %-*s  %s  %s", width, g.Fullname,
			valueStyle.Render(fmt.Sprintf("%3d", g.Score)), timeutil.FormatDateStr(g.ReceivedAt))
	}
	return strings.Join(lines, "\n")
}
