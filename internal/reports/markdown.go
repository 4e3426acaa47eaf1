package reports

import (
	"fmt"
	"strings"
)

// FormatMarkdown renders a report as a Markdown document with one table per
// group.
func FormatMarkdown(report *ProgressReport) string {
	var b strings.Builder

	b.WriteString("# Training progress\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**%d groups · %d exercises · %d weights logged**\n",
		report.Totals.Groups, report.Totals.Exercises, report.Totals.HistoryEntries)

	if len(report.Groups) == 0 {
		b.WriteString("\nNo workouts yet.\n")
		return b.String()
	}

	for _, g := range report.Groups {
		fmt.Fprintf(&b, "\n## %s\n\n", escapeCell(g.Name))
		if len(g.Exercises) == 0 {
			b.WriteString("No exercises in this group yet.\n")
			continue
		}
		b.WriteString("| Exercise | Sets x Reps | Current | First | Change | Entries | Last logged |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, ex := range g.Exercises {
			fmt.Fprintf(&b, "| %s | %s x %s | %s | %s | %s | %d | %s |\n",
				escapeCell(ex.Name),
				escapeCell(ex.Sets), escapeCell(ex.Reps),
				weightCell(ex.CurrentWeight),
				weightCell(ex.FirstWeight),
				dash(ex.Change),
				ex.Entries,
				dash(ex.LastLogged),
			)
		}
	}
	return b.String()
}

func weightCell(w string) string {
	if strings.TrimSpace(w) == "" {
		return "-"
	}
	return escapeCell(w) + " kg"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return escapeCell(s)
}

// escapeCell keeps user text from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
