package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"c4dsl/internal/analysis"
	"c4dsl/internal/domain"
)

var (
	pathStyle     = lipgloss.NewStyle().Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	boxStyle      = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)
)

func terminalLocation(path string, loc *domain.Location) string {
	if loc == nil {
		return locationStyle.Render(path)
	}
	return locationStyle.Render(fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Column))
}

// ValidationTerminal renders a validation result for one source as styled
// terminal lines
func ValidationTerminal(path string, res domain.ValidationResult) string {
	var sb strings.Builder
	if res.IsValid {
		fmt.Fprintf(&sb, "%s %s\n", okStyle.Render("✓"), pathStyle.Render(path))
	} else {
		fmt.Fprintf(&sb, "%s %s (%d error(s))\n", errorStyle.Render("✗"), pathStyle.Render(path), len(res.Errors))
	}
	for _, e := range res.Errors {
		fmt.Fprintf(&sb, "  %s %s %s\n", errorStyle.Render("error"), terminalLocation(path, e.Location), e.Message)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&sb, "  %s %s %s\n", warnStyle.Render("warn"), terminalLocation(path, w.Location), w.Message)
	}
	return sb.String()
}

// AnalysisTerminal renders the statistics box for the CLI
func AnalysisTerminal(r *analysis.Result) string {
	name := r.WorkspaceName
	if name == "" {
		name = "Unnamed"
	}

	lines := []string{
		pathStyle.Render(name),
		fmt.Sprintf("Depth: %d  Complexity: %s", r.Depth, r.Complexity),
	}
	for _, kind := range domain.ElementKinds {
		if n := r.ElementCounts[kind]; n > 0 {
			lines = append(lines, fmt.Sprintf("%-16s %d", kind, n))
		}
	}
	lines = append(lines, fmt.Sprintf("%-16s %d", "relationships", r.RelationshipCount))
	lines = append(lines, fmt.Sprintf("%-16s %d", "views", r.TotalViews()))

	out := boxStyle.Render(strings.Join(lines, "\n")) + "\n"
	for _, s := range r.Suggestions {
		out += fmt.Sprintf("%s %s\n", warnStyle.Render("•"), s)
	}
	return out
}
