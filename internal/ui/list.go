package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

const (
	starWidth     = 2
	categoryWidth = 13
	priceWidth    = 10
	stockWidth    = 12
	minNameWidth  = 12

	// header, controls, column titles, footer
	chromeLines = 4
)

const (
	loadingText = "Loading products…"
	idleText    = "Press r to load products."
	retryText   = "Press r to retry"
	emptyText   = "No result found."
)

// visibleProducts applies the list controls to the settled catalog.
func (m Model) visibleProducts() []catalog.Product {
	if m.snapshot.Phase != state.PhaseSuccess {
		return nil
	}
	view := catalog.View{
		Text:          m.filter.Value(),
		Category:      m.category,
		Order:         m.order,
		FavoritesOnly: m.favoritesOnly,
	}
	if m.favorites != nil {
		view.IsFavorite = m.favorites.IsFavorite
	}
	return view.Apply(m.snapshot.Products)
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	products := m.visibleProducts()
	if m.selected < 0 || m.selected >= len(products) {
		return catalog.Product{}, false
	}
	return products[m.selected], true
}

func (m *Model) resetSelection() {
	m.selected = 0
	m.offset = 0
}

// clampSelection keeps the selection inside the visible list and scrolled
// into view.
func (m *Model) clampSelection() {
	n := len(m.visibleProducts())
	if n == 0 {
		m.resetSelection()
		return
	}
	m.selected = clamp(m.selected, 0, n-1)

	rows := m.listHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = clamp(m.offset, 0, max(n-rows, 0))
}

func (m Model) listHeight() int {
	return max(m.height-chromeLines, 1)
}

func (m Model) nameWidth() int {
	fixed := starWidth + categoryWidth + priceWidth + stockWidth + 4
	return max(m.width-fixed-2, minNameWidth)
}

// renderMain renders header, controls, list body and footer.
func (m Model) renderMain() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderControls(),
		m.renderColumns(),
		m.renderBody(),
		m.renderFooter(),
	)
}

// renderColumns renders the column titles above the list.
func (m Model) renderColumns() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	line := strings.Join([]string{
		padRight("", starWidth),
		padRight("Name", m.nameWidth()),
		padRight("Category", categoryWidth),
		lipgloss.NewStyle().Width(priceWidth).Align(lipgloss.Right).Render("Price"),
		padRight("Stock", stockWidth),
	}, " ")
	return bg.FillLine(" "+bg.Render(line, styles.FaintText.Bold(true)), m.width)
}

// renderBody renders the state-dependent list area.
func (m Model) renderBody() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	rows := m.listHeight()

	var lines []string
	switch m.snapshot.Phase {
	case state.PhaseIdle:
		lines = []string{bg.Render(idleText, styles.MutedText)}

	case state.PhaseLoading:
		lines = []string{
			bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
				bg.Render(loadingText, styles.WarningText),
		}

	case state.PhaseError:
		lines = []string{
			bg.Render(m.snapshot.Err, styles.DangerText),
			bg.Render(retryText, styles.MutedText),
		}

	default:
		products := m.visibleProducts()
		if len(products) == 0 {
			lines = []string{bg.Render(emptyText, styles.MutedText)}
			break
		}
		end := min(m.offset+rows, len(products))
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(products[i], i == m.selected))
		}
	}

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		content := ""
		if i < len(lines) {
			content = lines[i]
		}
		out = append(out, bg.FillLine(bg.Space()+content, m.width))
	}
	return strings.Join(out, "\n")
}

// renderRow renders a single product line.
func (m Model) renderRow(p catalog.Product, selected bool) string {
	styles := m.theme.Styles()
	bgColor := m.theme.SurfaceAlt
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)

	star := "☆"
	if m.favorites != nil && m.favorites.IsFavorite(p.ID) {
		star = "★"
	}

	nameStyle := styles.Text
	if selected {
		nameStyle = nameStyle.Bold(true)
	}
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.CategoryColor(p.Category)))
	stockStyle := styles.SuccessText
	if !p.InStock {
		stockStyle = styles.DangerText
	}
	price := lipgloss.NewStyle().Width(priceWidth).Align(lipgloss.Right).Render(formatPrice(p.Price))

	parts := []string{
		bg.Render(padRight(star, starWidth), styles.Star),
		bg.Render(padRight(p.Name, m.nameWidth()), nameStyle),
		bg.Render(padRight(string(p.Category), categoryWidth), categoryStyle),
		bg.Render(price, styles.Text),
		bg.Render(padRight(stockLabel(p.InStock), stockWidth), stockStyle),
	}
	return bg.FillLine(strings.Join(parts, bg.Space()), max(m.width-1, 0))
}
