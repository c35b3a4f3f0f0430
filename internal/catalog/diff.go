package catalog

import (
	"sort"
	"strings"

	"edu-catalog/internal/domain"
)

// Changes describes how a freshly fetched catalog differs from a previous one.
type Changes struct {
	Added   []domain.EducationalItem
	Updated []domain.EducationalItem
	Removed []domain.EducationalItem
}

func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// Diff compares two catalogs by id. Only fields derived from upstream data
// are compared; price, rating, date and location are synthesized on every
// fetch and would report every item as changed. Output is sorted by id.
func Diff(previous, current []domain.EducationalItem) Changes {
	prevByID := indexByID(previous)
	curByID := indexByID(current)

	var ch Changes
	for id, cur := range curByID {
		prev, ok := prevByID[id]
		if !ok {
			ch.Added = append(ch.Added, cur)
			continue
		}
		if needsUpdate(prev, cur) {
			ch.Updated = append(ch.Updated, cur)
		}
	}
	for id, prev := range prevByID {
		if _, ok := curByID[id]; !ok {
			ch.Removed = append(ch.Removed, prev)
		}
	}

	sortByID(ch.Added)
	sortByID(ch.Updated)
	sortByID(ch.Removed)
	return ch
}

func indexByID(items []domain.EducationalItem) map[string]domain.EducationalItem {
	out := make(map[string]domain.EducationalItem, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			continue
		}
		// first occurrence wins, matching GetItemByID
		if _, dup := out[id]; !dup {
			out[id] = it
		}
	}
	return out
}

func needsUpdate(p, c domain.EducationalItem) bool {
	return norm(p.Title) != norm(c.Title) ||
		norm(p.Instructor) != norm(c.Instructor) ||
		norm(p.Category) != norm(c.Category) ||
		p.Level != c.Level ||
		p.Type != c.Type ||
		norm(p.Thumbnail) != norm(c.Thumbnail)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func sortByID(items []domain.EducationalItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
