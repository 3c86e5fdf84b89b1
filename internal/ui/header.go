package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 80

	parts := []string{bg.Render("shelf", styles.Logo)}

	switch m.snapshot.Phase {
	case state.PhaseLoading:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
	case state.PhaseError:
		label := "ERROR"
		if n := m.snapshot.ConsecutiveFailures; n > 1 && !compact {
			label = fmt.Sprintf("ERROR x%d", n)
		}
		parts = append(parts, bg.Render(label, styles.DangerText))
	case state.PhaseSuccess:
		visible := len(m.visibleProducts())
		total := len(m.snapshot.Products)
		parts = append(parts,
			bg.Render("Products:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", visible, total), styles.Text))
	}

	if m.favorites != nil {
		parts = append(parts,
			bg.Render("★", styles.Star)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.favorites.Len()), styles.Text))
	}

	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if !compact {
		parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderControls renders the filter, category, sort and favorites controls.
func (m Model) renderControls() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var filter string
	switch {
	case m.filtering:
		filter = m.filter.View()
	case m.filter.Value() != "":
		filter = bg.Render(m.filter.Value(), styles.Text)
	default:
		filter = bg.Render("none", styles.FaintText)
	}

	favorites := "off"
	favoritesStyle := styles.FaintText
	if m.favoritesOnly {
		favorites = "on"
		favoritesStyle = styles.Star
	}

	parts := []string{
		bg.Render("Filter:", styles.MutedText) + bg.Space() + filter,
		bg.Render("Category:", styles.MutedText) + bg.Space() +
			bg.Render(categoryLabel(m.category), styles.AccentText),
		bg.Render("Sort:", styles.MutedText) + bg.Space() +
			bg.Render(m.order.Label(), styles.AccentText),
		bg.Render("Favorites only:", styles.MutedText) + bg.Space() +
			bg.Render(favorites, favoritesStyle),
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last settle time with a relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	since := time.Since(last)
	switch {
	case since < 5*time.Second:
		return last.Format("15:04:05")
	case since < time.Minute:
		return fmt.Sprintf("%s (%ds ago)", last.Format("15:04:05"), int(since.Seconds()))
	default:
		return fmt.Sprintf("%s (%dm ago)", last.Format("15:04:05"), int(since.Minutes()))
	}
}
