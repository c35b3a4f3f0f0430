package mappers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"edu-catalog/internal/config"
	"edu-catalog/internal/domain"
	"edu-catalog/internal/providers"
)

const (
	minRating = 3.0
	maxRating = 5.0

	minPrice  = 50
	priceSpan = 150 // prices fall in [minPrice, minPrice+priceSpan)

	eventWindow = 30 * 24 * time.Hour

	pagesPerHour      = 20
	minCourseHours    = 5
	maxCourseHours    = 30
	defaultCourseHrs  = 10
	eventDuration     = "2h"
	workshopDuration  = "3-5h"
	isoMillisUTC      = "2006-01-02T15:04:05.000Z"
	descriptionFormat = "Master %s with this comprehensive %s. Learn from industry experts and gain practical skills through hands-on projects and real-world examples."
)

// Normalizer turns upstream records into EducationalItems. Everything except
// rating (when upstream has none), price, date and location is a pure
// function of the record and its position.
type Normalizer struct {
	tables config.CatalogTables
	rnd    RandomSource
	now    func() time.Time
}

type NormalizerOption func(*Normalizer)

func WithRandom(r RandomSource) NormalizerOption {
	return func(n *Normalizer) { n.rnd = r }
}

func WithNow(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) { n.now = now }
}

func NewNormalizer(tables config.CatalogTables, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		tables: tables,
		rnd:    NewRandomSource(uint64(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps rec, found at position index of its batch.
func (n *Normalizer) Normalize(rec providers.Record, index int) domain.EducationalItem {
	typ := TypeForIndex(index)
	category := n.Category(rec.Subjects)

	item := domain.EducationalItem{
		ID:          StripKeyPrefix(rec.Key),
		Title:       rec.Title,
		Description: fmt.Sprintf(descriptionFormat, cases.Lower(language.English).String(category), typ),
		Type:        typ,
		Instructor:  n.instructor(rec.AuthorNames),
		Duration:    DurationFor(rec.NumberOfPagesMedian, typ),
		Level:       LevelFor(rec.NumberOfPagesMedian),
		Thumbnail:   n.thumbnail(rec.CoverID),
		Category:    category,
	}

	// draw order is fixed so a seeded source reproduces an item exactly
	item.Rating = n.rating(rec.RatingsAverage)
	if typ != domain.TypeEvent {
		item.Price = minPrice + n.rnd.IntN(priceSpan)
	}
	if typ == domain.TypeEvent {
		offset := time.Duration(n.rnd.Float64() * float64(eventWindow))
		date := n.now().Add(offset).UTC().Format(isoMillisUTC)
		item.Date = &date
	}
	if typ != domain.TypeCourse && len(n.tables.Locations) > 0 {
		loc := n.tables.Locations[n.rnd.IntN(len(n.tables.Locations))]
		item.Location = &loc
	}
	return item
}

// NormalizeBatch maps records with indexes starting at 0.
func (n *Normalizer) NormalizeBatch(recs []providers.Record) []domain.EducationalItem {
	out := make([]domain.EducationalItem, 0, len(recs))
	for i, r := range recs {
		out = append(out, n.Normalize(r, i))
	}
	return out
}

// Category returns the category of the first keyword contained in any
// subject tag, scanning tags in order and the table in order for each tag.
func (n *Normalizer) Category(subjects []string) string {
	lower := cases.Lower(language.Und)
	for _, s := range subjects {
		tag := lower.String(s)
		for _, m := range n.tables.SubjectMapping {
			if strings.Contains(tag, m.Keyword) {
				return m.Category
			}
		}
	}
	return n.tables.DefaultCategory
}

func (n *Normalizer) instructor(authors []string) string {
	if len(authors) > 0 && strings.TrimSpace(authors[0]) != "" {
		return authors[0]
	}
	return n.tables.FallbackInstructor
}

func (n *Normalizer) thumbnail(coverID int64) string {
	if coverID > 0 {
		return fmt.Sprintf("%s/%d-M.jpg", strings.TrimRight(n.tables.CoversBaseURL, "/"), coverID)
	}
	return n.tables.FallbackThumbnail
}

func (n *Normalizer) rating(upstream float64) float64 {
	if upstream > 0 {
		return math.Min(maxRating, math.Max(minRating, upstream))
	}
	r := 3.5 + n.rnd.Float64()*1.5
	return math.Round(r*10) / 10
}

// TypeForIndex cycles course, workshop, event.
func TypeForIndex(index int) domain.ItemType {
	k := len(domain.ItemTypes)
	return domain.ItemTypes[((index%k)+k)%k]
}

// LevelFor derives difficulty from page count; unknown counts are beginner.
func LevelFor(pages int) domain.Level {
	switch {
	case pages <= 0:
		return domain.LevelBeginner
	case pages < 200:
		return domain.LevelBeginner
	case pages < 400:
		return domain.LevelIntermediate
	default:
		return domain.LevelAdvanced
	}
}

// DurationFor estimates duration from page count at twenty pages an hour.
func DurationFor(pages int, typ domain.ItemType) string {
	switch typ {
	case domain.TypeEvent:
		return eventDuration
	case domain.TypeWorkshop:
		return workshopDuration
	}
	if pages <= 0 {
		return strconv.Itoa(defaultCourseHrs) + "h"
	}
	hours := min(max(pages/pagesPerHour, minCourseHours), maxCourseHours)
	return strconv.Itoa(hours) + "h"
}

// StripKeyPrefix drops a namespace such as "/works/" from an upstream key.
func StripKeyPrefix(key string) string {
	key = strings.TrimSpace(key)
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
