package solids

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#8BC34A")
	colorMuted  = lipgloss.Color("#6B7280")
	colorError  = lipgloss.Color("#e53935")

	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	nameStyle        = lipgloss.NewStyle().Bold(true)
	constructorStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	supportedStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	unsupportedStyle = lipgloss.NewStyle().Foreground(colorError)
)

// Table writes the catalog as a styled terminal listing.
func Table(w io.Writer, list []Solid) error {
	nameWidth := len("Solid")
	for _, s := range list {
		nameWidth = max(nameWidth, len(s.Name))
	}
	col := lipgloss.NewStyle().Width(nameWidth + 2)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Geant4 solids") + "\n")
	b.WriteString(constructorStyle.Render(DocsURL) + "\n\n")
	for _, s := range list {
		status := unsupportedStyle.Render("sci-g only")
		if s.Supported() {
			status = supportedStyle.Render("descriptor: " + string(s.Kind))
		}
		b.WriteString(col.Render(nameStyle.Render(s.Name)) + s.Description + "  " + status + "\n")
		b.WriteString(col.Render("") + constructorStyle.Render(s.Constructor) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown renders the catalog as a markdown table.
func Markdown(list []Solid) string {
	var b strings.Builder
	b.WriteString("# Geant4 solids\n\n")
	fmt.Fprintf(&b, "Constructors are described in the [Geant4 guide](%s).\n\n", DocsURL)
	b.WriteString("| Solid | Description | sci-g constructor | Descriptor |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, s := range list {
		kind := "-"
		if s.Supported() {
			kind = "`" + string(s.Kind) + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", s.Name, s.Description, s.Constructor, kind)
	}
	return b.String()
}

// Render formats markdown for the terminal.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
