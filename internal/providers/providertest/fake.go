// Package providertest provides an in-memory providers.RecordSource for tests.
package providertest

import (
	"context"
	"strconv"
	"sync"
	"time"

	"edu-catalog/internal/providers"
)

// FakeSource serves canned records per topic. Topics listed in Errors fail,
// topics listed in Panics panic, and Delays holds a response back so tests
// can control arrival order.
type FakeSource struct {
	Topics map[string][]providers.Record
	Errors map[string]error
	Panics map[string]bool
	Delays map[string]time.Duration

	SearchResults []providers.Record
	SearchErr     error

	mu           sync.Mutex
	subjectCalls []string
	searchCalls  []string
	searchLimits []int
}

func (f *FakeSource) Name() string { return "fake" }

func (f *FakeSource) Subject(ctx context.Context, topic string, limit int) ([]providers.Record, error) {
	f.mu.Lock()
	f.subjectCalls = append(f.subjectCalls, topic)
	f.mu.Unlock()

	if d := f.Delays[topic]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Panics[topic] {
		panic("fake source: " + topic)
	}
	if err := f.Errors[topic]; err != nil {
		return nil, err
	}
	recs := f.Topics[topic]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (f *FakeSource) Search(ctx context.Context, query string, limit int) ([]providers.Record, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	f.searchLimits = append(f.searchLimits, limit)
	f.mu.Unlock()

	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	recs := f.SearchResults
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// SubjectCalls returns the topics requested so far, in call order.
func (f *FakeSource) SubjectCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subjectCalls...)
}

// SearchCalls returns the queries requested so far.
func (f *FakeSource) SearchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}

// SearchLimits returns the limit passed with each search.
func (f *FakeSource) SearchLimits() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.searchLimits...)
}

// Works builds n records keyed "/works/<prefix><i>W".
func Works(prefix string, n int, subjects ...string) []providers.Record {
	out := make([]providers.Record, n)
	for i := range out {
		out[i] = providers.Record{
			Key:                 "/works/" + prefix + strconv.Itoa(i) + "W",
			Title:               prefix + " title " + strconv.Itoa(i),
			AuthorNames:         []string{"Author " + strconv.Itoa(i)},
			Subjects:            subjects,
			NumberOfPagesMedian: 100 * (i + 1),
		}
	}
	return out
}
