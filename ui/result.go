package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/fakecheck/predict"
	"github.com/lepinkainen/fakecheck/preview"
	"github.com/lepinkainen/fakecheck/session"
)

// RenderResult renders a verdict or an error payload, without the surrounding box
func RenderResult(r *session.Result) string {
	if r == nil {
		return ""
	}
	if !r.IsOutcome() {
		return renderLines(ErrorStyle, r.PayloadText())
	}

	labelStyle := RealStyle
	if r.Outcome.Prediction == predict.LabelFake {
		labelStyle = FakeStyle
	}
	return fmt.Sprintf("Result: %s\nConfidence Score: %s",
		labelStyle.Render(string(r.Outcome.Prediction)),
		ScoreStyle.Render(r.Outcome.Confidence()))
}

// RenderPreview describes a selected file before it is sent anywhere
func RenderPreview(m *session.Media, p *preview.Preview) string {
	if m == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf("🎬 %s (%s)", m.Name, FormatSize(m.Size)),
	}
	if p != nil {
		if p.Metadata != nil {
			lines = append(lines, MutedStyle.Render("   "+p.Metadata.String()))
		}
		if p.HasThumbnail() {
			lines = append(lines, MutedStyle.Render("   Thumbnail: "+p.Locator))
		} else {
			lines = append(lines, MutedStyle.Render("   Preview: "+p.Locator))
		}
		if p.Fingerprint != "" {
			lines = append(lines, MutedStyle.Render("   Fingerprint: "+p.Fingerprint))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatSize renders a byte count in the units the CLI uses elsewhere
func FormatSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// renderLines styles each line on its own. Rendering a block at once pads
// every line to the widest one, which would alter the payload.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
