package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens text to limit display cells, ending with an ellipsis.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= limit {
		return text
	}
	runes := []rune(text)
	if limit == 1 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// padRight pads text with spaces to exactly width display cells.
func padRight(text string, width int) string {
	text = truncate(text, width)
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

// formatPrice renders a price in dollars with two decimals.
func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// stockLabel returns the availability text shown for a product.
func stockLabel(inStock bool) string {
	if inStock {
		return "In stock"
	}
	return "Out of stock"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
