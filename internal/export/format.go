package export

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// FormatPrice renders a price for display; zero is FREE.
func FormatPrice(price int) string {
	if price == 0 {
		return "FREE"
	}
	return "$" + strconv.Itoa(price)
}

// FormatRating renders a rating with one decimal.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// Truncate shortens s to at most width terminal cells, ending in "..." when
// anything was cut. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, ellipsis)
}
