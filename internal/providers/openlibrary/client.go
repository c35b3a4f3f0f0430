package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"edu-catalog/internal/httpx"
	"edu-catalog/internal/providers"
)

var _ providers.RecordSource = (*Client)(nil)

const userAgent = "edu-catalog/1.0 (+https://openlibrary.org/developers/api)"

// Client talks to the two Open Library endpoint families the catalog uses.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Retry:   httpx.DefaultRetryConfig(),
	}
}

func (c *Client) Name() string { return "openlibrary" }

// Subject lists works filed under topic.
func (c *Client) Subject(ctx context.Context, topic string, limit int) ([]providers.Record, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("openlibrary: empty topic")
	}

	u, err := url.Parse(fmt.Sprintf("%s/subjects/%s.json", c.BaseURL, url.PathEscape(topic)))
	if err != nil {
		return nil, fmt.Errorf("openlibrary: invalid base url: %w", err)
	}
	q := u.Query()
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	var out SubjectResponse
	if err := httpx.GetJSON(ctx, c.HTTP, u.String(), userAgent, &out, c.Retry); err != nil {
		return nil, fmt.Errorf("openlibrary subject %q: %w", topic, err)
	}

	records := make([]providers.Record, 0, len(out.Works))
	for _, w := range out.Works {
		records = append(records, w.Record(topic))
	}
	return records, nil
}

// Search runs a full-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]providers.Record, error) {
	u, err := url.Parse(c.BaseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("openlibrary: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	var out SearchResponse
	if err := httpx.GetJSON(ctx, c.HTTP, u.String(), userAgent, &out, c.Retry); err != nil {
		return nil, fmt.Errorf("openlibrary search %q: %w", query, err)
	}

	records := make([]providers.Record, 0, len(out.Docs))
	for _, d := range out.Docs {
		records = append(records, d.Record())
	}
	return records, nil
}
