package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SubjectCategory maps a lower-case keyword found in an upstream subject tag
// to a catalog category.
type SubjectCategory struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// CatalogTables holds the fixed lookup tables used by the normalizer and
// the fetch orchestrator. Order matters for SubjectMapping (first match wins)
// and Topics (only the first TopicLimit entries are queried).
type CatalogTables struct {
	SubjectMapping     []SubjectCategory `yaml:"subject_mapping"`
	DefaultCategory    string            `yaml:"default_category"`
	Topics             []string          `yaml:"topics"`
	TopicLimit         int               `yaml:"topic_limit"`
	PerTopicLimit      int               `yaml:"per_topic_limit"`
	SearchLimit        int               `yaml:"search_limit"`
	Locations          []string          `yaml:"locations"`
	CoversBaseURL      string            `yaml:"covers_base_url"`
	FallbackThumbnail  string            `yaml:"fallback_thumbnail"`
	FallbackInstructor string            `yaml:"fallback_instructor"`
}

func DefaultCatalogTables() CatalogTables {
	return CatalogTables{
		SubjectMapping: []SubjectCategory{
			{"programming", "Programming"},
			{"computer science", "Programming"},
			{"javascript", "Programming"},
			{"python", "Programming"},
			{"web development", "Programming"},
			{"design", "Design"},
			{"graphic design", "Design"},
			{"ui design", "Design"},
			{"ux design", "Design"},
			{"business", "Business"},
			{"management", "Business"},
			{"entrepreneurship", "Business"},
			{"marketing", "Marketing"},
			{"digital marketing", "Marketing"},
			{"advertising", "Marketing"},
			{"data science", "Data Science"},
			{"statistics", "Data Science"},
			{"machine learning", "Data Science"},
			{"artificial intelligence", "Data Science"},
		},
		DefaultCategory: "Programming",
		Topics: []string{
			"programming",
			"javascript",
			"python",
			"web development",
			"design",
			"graphic design",
			"business",
			"management",
			"marketing",
			"data science",
			"machine learning",
		},
		TopicLimit:         4,
		PerTopicLimit:      5,
		SearchLimit:        20,
		Locations:          []string{"Online", "New York", "San Francisco", "London"},
		CoversBaseURL:      "https://covers.openlibrary.org/b/id",
		FallbackThumbnail:  "https://images.unsplash.com/photo-1516116216624-53e697fedbea?w=400&h=300&fit=crop",
		FallbackInstructor: "Expert Instructor",
	}
}

// SelectedTopics returns the prefix of Topics that a fetch should query.
func (t CatalogTables) SelectedTopics() []string {
	n := t.TopicLimit
	if n <= 0 || n > len(t.Topics) {
		n = len(t.Topics)
	}
	out := make([]string, n)
	copy(out, t.Topics[:n])
	return out
}

// LoadCatalogTables reads a YAML file and overlays every non-empty field on
// top of DefaultCatalogTables. An empty path returns the defaults.
func LoadCatalogTables(path string) (CatalogTables, error) {
	tables := DefaultCatalogTables()
	if strings.TrimSpace(path) == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("failed to read catalog tables: %w", err)
	}

	var raw CatalogTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return tables, fmt.Errorf("failed to parse catalog tables %s: %w", path, err)
	}

	overlay(&tables, raw)

	if err := tables.Validate(); err != nil {
		return tables, fmt.Errorf("invalid catalog tables %s: %w", path, err)
	}
	return tables, nil
}

func overlay(dst *CatalogTables, src CatalogTables) {
	if len(src.SubjectMapping) > 0 {
		dst.SubjectMapping = src.SubjectMapping
	}
	if src.DefaultCategory != "" {
		dst.DefaultCategory = src.DefaultCategory
	}
	if len(src.Topics) > 0 {
		dst.Topics = src.Topics
	}
	if src.TopicLimit > 0 {
		dst.TopicLimit = src.TopicLimit
	}
	if src.PerTopicLimit > 0 {
		dst.PerTopicLimit = src.PerTopicLimit
	}
	if src.SearchLimit > 0 {
		dst.SearchLimit = src.SearchLimit
	}
	if len(src.Locations) > 0 {
		dst.Locations = src.Locations
	}
	if src.CoversBaseURL != "" {
		dst.CoversBaseURL = src.CoversBaseURL
	}
	if src.FallbackThumbnail != "" {
		dst.FallbackThumbnail = src.FallbackThumbnail
	}
	if src.FallbackInstructor != "" {
		dst.FallbackInstructor = src.FallbackInstructor
	}
}

// Validate checks the invariants the normalizer relies on.
func (t CatalogTables) Validate() error {
	if len(t.Topics) == 0 {
		return fmt.Errorf("topics must not be empty")
	}
	if len(t.Locations) == 0 {
		return fmt.Errorf("locations must not be empty")
	}
	if t.DefaultCategory == "" {
		return fmt.Errorf("default_category is required")
	}
	for i, m := range t.SubjectMapping {
		if strings.TrimSpace(m.Keyword) == "" || strings.TrimSpace(m.Category) == "" {
			return fmt.Errorf("subject_mapping[%d]: keyword and category are required", i)
		}
		if m.Keyword != strings.ToLower(m.Keyword) {
			return fmt.Errorf("subject_mapping[%d]: keyword %q must be lower-case", i, m.Keyword)
		}
	}
	return nil
}
