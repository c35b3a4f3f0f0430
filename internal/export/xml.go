package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edu-catalog/internal/domain"
)

/*
Catalog XML feed:

<catalog generated_at="2026-10-19T12:00:00Z" count="1">
  <item id="OL45883W" type="event">
    <title>...</title>
    <description>...</description>
    <instructor>...</instructor>
    <category>Programming</category>
    <level>advanced</level>
    <duration>2h</duration>
    <rating>4.3</rating>
    <price>0</price>
    <date>2026-11-03T12:00:00.000Z</date>
    <location>Online</location>
    <thumbnail>...</thumbnail>
  </item>
</catalog>
*/

type xmlCatalog struct {
	XMLName     xml.Name  `xml:"catalog"`
	GeneratedAt string    `xml:"generated_at,attr"`
	Count       int       `xml:"count,attr"`
	Items       []xmlItem `xml:"item"`
}

type xmlItem struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr"`

	Title       string `xml:"title"`
	Description string `xml:"description,omitempty"`
	Instructor  string `xml:"instructor,omitempty"`
	Category    string `xml:"category,omitempty"`
	Level       string `xml:"level,omitempty"`
	Duration    string `xml:"duration,omitempty"`
	Rating      string `xml:"rating"`
	Price       int    `xml:"price"`

	Date     string `xml:"date,omitempty"`
	Location string `xml:"location,omitempty"`

	Thumbnail string `xml:"thumbnail,omitempty"`
}

// MarshalXML renders items as an indented catalog document with the XML header.
func MarshalXML(items []domain.EducationalItem, generatedAt time.Time) ([]byte, error) {
	out := xmlCatalog{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Count:       len(items),
		Items:       make([]xmlItem, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, xmlItem{
			ID:          it.ID,
			Type:        string(it.Type),
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Instructor:  strings.TrimSpace(it.Instructor),
			Category:    it.Category,
			Level:       string(it.Level),
			Duration:    it.Duration,
			Rating:      FormatRating(it.Rating),
			Price:       it.Price,
			Date:        deref(it.Date),
			Location:    deref(it.Location),
			Thumbnail:   strings.TrimSpace(it.Thumbnail),
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal xml: %w", err)
	}
	return append([]byte(xml.Header), b...), nil
}

// WriteXMLFile writes the catalog document to outPath, creating its directory.
func WriteXMLFile(outPath string, items []domain.EducationalItem, generatedAt time.Time) error {
	b, err := MarshalXML(items, generatedAt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}
