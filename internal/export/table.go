package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"edu-catalog/internal/domain"
)

const (
	minTitleWidth = 12
	colGap        = "  "
)

type column struct {
	name  string
	width int
	value func(domain.EducationalItem) string
}

var fixedColumns = []column{
	{"TYPE", 8, func(it domain.EducationalItem) string { return string(it.Type) }},
	{"CATEGORY", 12, func(it domain.EducationalItem) string { return it.Category }},
	{"LEVEL", 12, func(it domain.EducationalItem) string { return string(it.Level) }},
	{"RATING", 6, func(it domain.EducationalItem) string { return FormatRating(it.Rating) }},
	{"PRICE", 5, func(it domain.EducationalItem) string { return FormatPrice(it.Price) }},
	{"ID", 12, func(it domain.EducationalItem) string { return it.ID }},
}

// WriteTable renders items as an aligned listing that fits in width cells.
// The title column takes whatever the fixed columns leave over.
func WriteTable(w io.Writer, items []domain.EducationalItem, width int) error {
	titleWidth := width
	for _, c := range fixedColumns {
		titleWidth -= c.width + len(colGap)
	}
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}

	bw := bufio.NewWriter(w)
	header := []string{runewidth.FillRight("TITLE", titleWidth)}
	for _, c := range fixedColumns {
		header = append(header, runewidth.FillRight(c.name, c.width))
	}
	writeLine(bw, header)

	for _, it := range items {
		cells := []string{runewidth.FillRight(Truncate(oneLine(it.Title), titleWidth), titleWidth)}
		for _, c := range fixedColumns {
			cells = append(cells, runewidth.FillRight(Truncate(c.value(it), c.width), c.width))
		}
		writeLine(bw, cells)
	}
	return bw.Flush()
}

func writeLine(bw *bufio.Writer, cells []string) {
	_, _ = bw.WriteString(strings.TrimRight(strings.Join(cells, colGap), " "))
	_ = bw.WriteByte('\n')
}
