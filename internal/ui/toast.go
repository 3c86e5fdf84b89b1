package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/notify"
)

// renderFooter shows the active toast, or key hints when there is none.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var content string
	if m.toast != nil {
		content = bg.Render(m.toast.Message, m.toastStyle(m.toast.Kind))
	} else {
		hints := []string{}
		for _, b := range []struct{ key, desc string }{
			{"/", "filter"},
			{"s", "sort"},
			{"c", "category"},
			{"F", "favorites"},
			{"space", "★"},
			{"?", "help"},
			{"q", "quit"},
		} {
			hints = append(hints, bg.Render(b.key, styles.AccentText)+bg.Space()+bg.Render(b.desc, styles.FaintText))
		}
		content = bg.Join(hints, "  ")
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(content)
}

func (m Model) toastStyle(kind notify.Kind) lipgloss.Style {
	styles := m.theme.Styles()
	switch kind {
	case notify.KindSuccess:
		return styles.SuccessText.Bold(true)
	case notify.KindWarning:
		return styles.WarningText.Bold(true)
	case notify.KindError:
		return styles.DangerText
	case notify.KindInfo:
		return styles.InfoText.Bold(true)
	default:
		return styles.Text.Bold(true)
	}
}
