package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bookcatalog/internal/book"
)

// ErrBookNotFound is returned when Open Library has no record for an ISBN.
var ErrBookNotFound = errors.New("openlibrary: book not found")

type Client struct {
	httpClient  *http.Client
	userAgent   string
	baseURL     string
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	if rps < 1 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:   userAgent,
		baseURL:     strings.TrimRight(baseURL, "/"),
		limiter:     rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries:  maxRetries,
		backoffBase: time.Second,
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
}

type Named struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Publishers  []Named `json:"publishers"`
	PublishDate string  `json:"publish_date"`
	Cover       struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Authors       []Named `json:"authors"`
	Subjects      []Named `json:"subjects"`
	NumberOfPages int     `json:"number_of_pages"`
	Notes         any     `json:"notes"` // Can be string or {type: ..., value: ...}
}

// SearchBooks returns works tagged with subject.
func (c *Client) SearchBooks(ctx context.Context, subject string, limit int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=subject:%s&fields=key,title,author_name,isbn,first_publish_year&limit=%d",
		c.baseURL, url.QueryEscape(subject), limit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetBookDetails fetches the data view of a single ISBN.
func (c *Client) GetBookDetails(ctx context.Context, isbn string) (BookDetails, error) {
	bibkey := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json", c.baseURL, url.QueryEscape(bibkey))

	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return BookDetails{}, err
	}
	details, ok := res[bibkey]
	if !ok {
		return BookDetails{}, ErrBookNotFound
	}
	return details, nil
}

// FetchMetadataForBook fetches isbn and maps it to an unsaved book.
func (c *Client) FetchMetadataForBook(ctx context.Context, isbn string) (*book.Book, error) {
	details, err := c.GetBookDetails(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return ToBook(isbn, details), nil
}

func (c *Client) get(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * c.backoffBase
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, endpoint, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs a single request. The bool reports whether err is retryable.
func (c *Client) do(ctx context.Context, endpoint string, target any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

// ToBook maps Open Library details onto the catalog book model.
func ToBook(isbn string, details BookDetails) *book.Book {
	title := details.Title
	if details.Subtitle != "" {
		title = title + ": " + details.Subtitle
	}
	return &book.Book{
		ISBN:         isbn,
		Title:        title,
		Author:       firstName(details.Authors),
		Publisher:    firstName(details.Publishers),
		Genre:        firstName(details.Subjects),
		Description:  formatNotes(details.Notes),
		Pages:        details.NumberOfPages,
		ThumbnailURL: details.Cover.Medium,
	}
}

func firstName(n []Named) string {
	if len(n) == 0 {
		return ""
	}
	return n[0].Name
}

func formatNotes(notes any) string {
	if s, ok := notes.(string); ok {
		return s
	}
	if m, ok := notes.(map[string]any); ok {
		if v, ok := m["value"].(string); ok {
			return v
		}
	}
	return ""
}

// PreferredISBN picks the 13 digit ISBN of a search doc, if any.
func PreferredISBN(doc SearchDoc) (string, bool) {
	for _, i := range doc.ISBN {
		if book.IsValidISBN(i) {
			return i, true
		}
	}
	return "", false
}
