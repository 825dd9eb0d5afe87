package errors

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for Format. lipgloss drops the colors when the output is
// not a terminal.
var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	codeStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	detailIndent = "  "
)

// Format returns a multi-line error message for terminal display.
func (e *KiteError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(labelStyle.Render("ERROR") + " " + codeStyle.Render(e.Code+":") + " ")
	} else {
		b.WriteString(labelStyle.Render("ERROR:") + " ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	for _, line := range wrapText(e.Detail, 70) {
		b.WriteString(detailIndent + line + "\n")
	}
	if e.Detail != "" {
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		b.WriteString(detailIndent + "Cause: " + e.Wrapped.Error() + "\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString(detailIndent + hintStyle.Render("Hint:") + " " + e.Suggestion + "\n")
	}
	return b.String()
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
}

// FormatJSON returns the error as a single-line JSON object.
func (e *KiteError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// wrapText splits text into lines of at most width bytes, breaking on
// whitespace. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
