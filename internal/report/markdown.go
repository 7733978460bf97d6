// Package report renders validation, formatting, and analysis results for
// people: markdown for tool output and styled text for terminals.
package report

import (
	"fmt"
	"strings"

	"c4dsl/internal/analysis"
	"c4dsl/internal/domain"
)

func writeFinding(sb *strings.Builder, msg string, loc *domain.Location) {
	sb.WriteString(msg)
	if loc != nil {
		fmt.Fprintf(sb, " (%s)", loc)
	}
}

func writeWarnings(sb *strings.Builder, heading string, warnings []domain.ParseError) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(sb, "⚠️ **%s:**\n\n", heading)
	for _, w := range warnings {
		sb.WriteString("- ")
		writeFinding(sb, w.Message, w.Location)
		sb.WriteString("\n")
	}
}

// ValidationMarkdown renders a validation result
func ValidationMarkdown(res domain.ValidationResult) string {
	var sb strings.Builder

	if res.IsValid {
		sb.WriteString("✅ **DSL Validation Successful**\n\n")
		sb.WriteString("Your C4 Structurizr DSL is syntactically and semantically valid!\n\n")
		writeWarnings(&sb, "Warnings", res.Warnings)
		return sb.String()
	}

	sb.WriteString("❌ **DSL Validation Failed**\n\n")
	fmt.Fprintf(&sb, "Found %d error(s):\n\n", len(res.Errors))
	for i, e := range res.Errors {
		fmt.Fprintf(&sb, "**Error %d:** ", i+1)
		writeFinding(&sb, e.Message, e.Location)
		sb.WriteString("\n\n")
	}
	writeWarnings(&sb, "Additional Warnings", res.Warnings)

	sb.WriteString("\n**Common Fixes:**\n")
	sb.WriteString("- Check for typos in element identifiers\n")
	sb.WriteString("- Ensure all referenced elements are defined\n")
	sb.WriteString("- Verify proper nesting of elements (containers in software systems, components in containers)\n")
	sb.WriteString("- Check that all required quotes are present for names and descriptions\n")
	return sb.String()
}

// FormatMarkdown renders formatted source in a fenced block
func FormatMarkdown(formatted string) string {
	return fmt.Sprintf("✅ **DSL Formatted Successfully**\n\n```\n%s\n```", formatted)
}

// FormatFailedMarkdown explains why formatting could not run
func FormatFailedMarkdown(err error) string {
	return fmt.Sprintf("❌ **Formatting Failed**\n\nCannot format invalid DSL. Please fix syntax errors first:\n\n%s", err)
}

// AnalysisFailedMarkdown explains why analysis could not run
func AnalysisFailedMarkdown(err error) string {
	return fmt.Sprintf("❌ **Analysis Failed**\n\nCannot analyze invalid DSL. Please fix syntax errors first:\n\n%s", err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AnalysisMarkdown renders model statistics, element details, and suggestions
func AnalysisMarkdown(r *analysis.Result) string {
	var sb strings.Builder
	sb.WriteString("📊 **C4 Model Analysis**\n\n")

	name := r.WorkspaceName
	if name == "" {
		name = "Unnamed"
	}
	sb.WriteString("## Overview\n")
	fmt.Fprintf(&sb, "- **Workspace**: %s\n", name)
	fmt.Fprintf(&sb, "- **Model Depth**: %d levels\n", r.Depth)
	fmt.Fprintf(&sb, "- **Complexity**: %s\n\n", r.Complexity)

	sb.WriteString("## Element Statistics\n")
	for _, kind := range domain.ElementKinds {
		if n := r.ElementCounts[kind]; n > 0 {
			fmt.Fprintf(&sb, "- **%ss**: %d\n", capitalize(string(kind)), n)
		}
	}
	fmt.Fprintf(&sb, "- **Relationships**: %d\n\n", r.RelationshipCount)

	sb.WriteString("## View Statistics\n")
	if r.TotalViews() == 0 {
		sb.WriteString("- No views defined\n")
	}
	for _, kind := range domain.ViewKinds {
		if n := r.ViewCounts[kind]; n > 0 {
			fmt.Fprintf(&sb, "- **%s views**: %d\n", capitalize(string(kind)), n)
		}
	}
	sb.WriteString("\n")

	if len(r.Elements) > 0 {
		sb.WriteString("## Element Details\n")
		for _, e := range r.Elements {
			fmt.Fprintf(&sb, "### %s: %s\n", capitalize(string(e.Kind)), e.Name)
			fmt.Fprintf(&sb, "- **ID**: `%s`\n", e.ID)
			if e.Description != "" {
				fmt.Fprintf(&sb, "- **Description**: %s\n", e.Description)
			}
			if e.Technology != "" {
				fmt.Fprintf(&sb, "- **Technology**: %s\n", e.Technology)
			}
			if len(e.Tags) > 0 {
				fmt.Fprintf(&sb, "- **Tags**: %s\n", strings.Join(e.Tags, ", "))
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Relationships) > 0 {
		sb.WriteString("## Relationship Details\n")
		for _, rel := range r.Relationships {
			fmt.Fprintf(&sb, "- **%s** → **%s**", rel.Source, rel.Destination)
			if rel.Description != "" {
				fmt.Fprintf(&sb, ": %s", rel.Description)
			}
			if rel.Technology != "" {
				fmt.Fprintf(&sb, " (%s)", rel.Technology)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("## 💡 Suggestions\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	return sb.String()
}
