// Package filter narrows a fetched catalog on the client side.
package filter

import (
	"strings"

	"edu-catalog/internal/domain"
)

const (
	AllTypes      = "all"
	AllCategories = "All"
)

// Criteria combines the filters Apply runs. Zero values disable a filter.
type Criteria struct {
	Type     string
	Category string
	Query    string

	// ExcludeIDs drops items the user is already enrolled in.
	ExcludeIDs []string
}

// ByType keeps items of type t; "all" or empty keeps everything.
func ByType(items []domain.EducationalItem, t string) []domain.EducationalItem {
	t = strings.TrimSpace(t)
	if t == "" || strings.EqualFold(t, AllTypes) {
		return items
	}
	return keep(items, func(it domain.EducationalItem) bool {
		return strings.EqualFold(string(it.Type), t)
	})
}

// ByCategory keeps items in category c; "All" or empty keeps everything.
func ByCategory(items []domain.EducationalItem, c string) []domain.EducationalItem {
	c = strings.TrimSpace(c)
	if c == "" || c == AllCategories {
		return items
	}
	return keep(items, func(it domain.EducationalItem) bool {
		return it.Category == c
	})
}

// BySearchQuery keeps items whose title, description, category or
// instructor contains q, ignoring case.
func BySearchQuery(items []domain.EducationalItem, q string) []domain.EducationalItem {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	return keep(items, func(it domain.EducationalItem) bool {
		for _, field := range []string{it.Title, it.Description, it.Category, it.Instructor} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// ByEnrollment keeps the enrolled items when enrolled is true and the rest
// otherwise.
func ByEnrollment(items []domain.EducationalItem, enrolledIDs []string, enrolled bool) []domain.EducationalItem {
	set := make(map[string]struct{}, len(enrolledIDs))
	for _, id := range enrolledIDs {
		set[id] = struct{}{}
	}
	return keep(items, func(it domain.EducationalItem) bool {
		_, ok := set[it.ID]
		return ok == enrolled
	})
}

// Apply runs enrollment exclusion, then type, category and query filters.
func Apply(items []domain.EducationalItem, c Criteria) []domain.EducationalItem {
	out := items
	if len(c.ExcludeIDs) > 0 {
		out = ByEnrollment(out, c.ExcludeIDs, false)
	}
	out = ByType(out, c.Type)
	out = ByCategory(out, c.Category)
	return BySearchQuery(out, c.Query)
}

// Categories lists the distinct categories in first-seen order.
func Categories(items []domain.EducationalItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

func keep(items []domain.EducationalItem, pred func(domain.EducationalItem) bool) []domain.EducationalItem {
	out := make([]domain.EducationalItem, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
