package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/state"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.ClearFilter):
		m.filter.SetValue("")
		m.resetSelection()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.order = m.order.Next()
		m.savePrefs()
		m.resetSelection()
		return m, nil

	case key.Matches(msg, m.keys.CycleCategory):
		m.category = nextCategory(m.category)
		m.resetSelection()
		return m, nil

	case key.Matches(msg, m.keys.FavoritesOnly):
		m.favoritesOnly = !m.favoritesOnly
		m.resetSelection()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		m.toggleSelected()
		return m, nil

	case key.Matches(msg, m.keys.ClearFavorites):
		if m.favorites != nil {
			m.favorites.ClearAll()
			m.clampSelection()
		}
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.query == nil || m.snapshot.Phase == state.PhaseLoading {
			return m, nil
		}
		return m, refreshCmd(m.ctx, m.query)

	case key.Matches(msg, m.keys.Up):
		m.selected--
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.selected++
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.visibleProducts()) - 1
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

// handleFilterKey routes keys to the name filter input while it has focus.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.resetSelection()
	return m, cmd
}

// toggleSelected flips the favorite state of the highlighted product.
func (m *Model) toggleSelected() {
	if m.favorites == nil {
		return
	}
	product, ok := m.selectedProduct()
	if !ok {
		return
	}
	m.favorites.Toggle(favorites.Item{ID: product.ID, Name: product.Name})
	if m.favoritesOnly {
		m.clampSelection()
	}
}

// nextCategory cycles All → Books → Games → Electronics → All.
func nextCategory(current catalog.Category) catalog.Category {
	choices := catalog.Categories()
	for i, name := range choices {
		c, _ := catalog.ParseCategory(name)
		if c == current {
			next, _ := catalog.ParseCategory(choices[(i+1)%len(choices)])
			return next
		}
	}
	return ""
}

func categoryLabel(c catalog.Category) string {
	if c == "" {
		return catalog.CategoryAll
	}
	return string(c)
}
