package openlibrary

import (
	"encoding/json"
	"strings"

	"edu-catalog/internal/providers"
)

/* -------- /subjects/{topic}.json -------- */

type SubjectResponse struct {
	Name      string `json:"name"`
	WorkCount int    `json:"work_count"`
	Works     []Work `json:"works"`
}

type Work struct {
	Key                 string     `json:"key"`
	Title               string     `json:"title"`
	Authors             []Author   `json:"authors"`
	Subject             StringList `json:"subject"`
	CoverID             int64      `json:"cover_id"`
	FirstPublishYear    int        `json:"first_publish_year"`
	RatingsAverage      float64    `json:"ratings_average"`
	NumberOfPagesMedian int        `json:"number_of_pages_median"`
}

type Author struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Record converts a subject-listing work. Works without subject tags are
// tagged with the topic they were listed under.
func (w Work) Record(topic string) providers.Record {
	names := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	subjects := []string(w.Subject)
	if len(subjects) == 0 && topic != "" {
		subjects = []string{topic}
	}
	return providers.Record{
		Key:                 w.Key,
		Title:               w.Title,
		AuthorNames:         names,
		Subjects:            subjects,
		CoverID:             w.CoverID,
		FirstPublishYear:    w.FirstPublishYear,
		RatingsAverage:      w.RatingsAverage,
		NumberOfPagesMedian: w.NumberOfPagesMedian,
	}
}

/* -------- /search.json -------- */

type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

type SearchDoc struct {
	Key                 string     `json:"key"`
	Title               string     `json:"title"`
	AuthorName          StringList `json:"author_name"`
	Subject             StringList `json:"subject"`
	CoverI              int64      `json:"cover_i"`
	FirstPublishYear    int        `json:"first_publish_year"`
	RatingsAverage      float64    `json:"ratings_average"`
	NumberOfPagesMedian int        `json:"number_of_pages_median"`
}

func (d SearchDoc) Record() providers.Record {
	return providers.Record{
		Key:                 d.Key,
		Title:               d.Title,
		AuthorNames:         []string(d.AuthorName),
		Subjects:            []string(d.Subject),
		CoverID:             d.CoverI,
		FirstPublishYear:    d.FirstPublishYear,
		RatingsAverage:      d.RatingsAverage,
		NumberOfPagesMedian: d.NumberOfPagesMedian,
	}
}

// StringList accepts either a JSON array of strings or a single string.
// Empty entries are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}

	// string: "Programming"
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}

	var strs []string
	if err := json.Unmarshal(b, &strs); err != nil {
		return err
	}
	out := make(StringList, 0, len(strs))
	for _, s := range strs {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	*l = out
	return nil
}
