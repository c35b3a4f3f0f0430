package providers

import "context"

// Record is a raw upstream catalog entry before normalization. Sources map
// their wire formats into it. Zero numeric fields mean "not provided".
type Record struct {
	Key                 string // may carry a namespace prefix, e.g. "/works/OL45883W"
	Title               string
	AuthorNames         []string
	Subjects            []string
	CoverID             int64
	FirstPublishYear    int
	RatingsAverage      float64
	NumberOfPagesMedian int
}

// RecordSource is an upstream catalog that can list records by topic and run
// a free-text search.
type RecordSource interface {
	Name() string
	Subject(ctx context.Context, topic string, limit int) ([]Record, error)
	Search(ctx context.Context, query string, limit int) ([]Record, error)
}
