// Package wiki fetches article text from the Wikipedia API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	defaultAPIURL    = "https://en.wikipedia.org/w/api.php"
	defaultPageURL   = "https://en.wikipedia.org/wiki/"
	defaultUserAgent = "tellme/0.2.0 (https://github.com/xeij/tellme)"
	defaultDelay     = 500 * time.Millisecond
)

// Client talks to the Wikipedia API. Create one per fetch run; it is safe
// for sequential use only.
type Client struct {
	http      *http.Client
	apiURL    string
	pageURL   string
	userAgent string
	delay     time.Duration
}

// Options configures a Client. Zero values fall back to the public
// English Wikipedia endpoints with a polite request delay.
type Options struct {
	HTTPClient *http.Client
	APIURL     string
	PageURL    string
	UserAgent  string
	Delay      time.Duration
}

// NewClient wires a client; the HTTP client defaults to a 30s timeout.
func NewClient(opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		apiURL:    opts.APIURL,
		pageURL:   opts.PageURL,
		userAgent: opts.UserAgent,
		delay:     opts.Delay,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	if c.pageURL == "" {
		c.pageURL = defaultPageURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.delay == 0 {
		c.delay = defaultDelay
	}
	return c
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Search returns article titles matching the query, via the opensearch
// endpoint. The response is a four-element array whose second element holds
// the titles.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", fmt.Sprint(limit))
	params.Set("namespace", "0")
	params.Set("format", "json")

	body, err := c.get(ctx, c.apiURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("search %q: decode: %w", query, err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("search %q: decode titles: %w", query, err)
	}
	return titles, nil
}

// extractResponse mirrors the pieces of the query API response we read.
type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Extract fetches the plain-text introduction of an article. Returns
// ok=false when the article has no extract.
func (c *Client) Extract(ctx context.Context, title string) (text, sourceURL string, ok bool, err error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	params.Set("exintro", "")
	params.Set("explaintext", "")
	params.Set("exsectionformat", "plain")

	body, err := c.get(ctx, c.apiURL+"?"+params.Encode())
	if err != nil {
		return "", "", false, fmt.Errorf("extract %q: %w", title, err)
	}

	var resp extractResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", false, fmt.Errorf("extract %q: decode: %w", title, err)
	}

	for _, page := range resp.Query.Pages {
		if page.Extract == "" {
			continue
		}
		text := page.Extract
		// The API occasionally returns residual markup even in plain-text
		// mode.
		if strings.Contains(text, "<") {
			text = stripHTML(text)
		}
		return text, c.PageURL(title), true, nil
	}
	return "", "", false, nil
}

// PageParagraphs scrapes paragraph text straight from the article page.
// Fallback for articles whose extract is empty.
func (c *Client) PageParagraphs(ctx context.Context, title string) (text, sourceURL string, ok bool, err error) {
	pageURL := c.PageURL(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", false, fmt.Errorf("page %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", false, fmt.Errorf("page %q: unexpected status %s", title, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", false, fmt.Errorf("page %q: parse: %w", title, err)
	}

	var paragraphs []string
	doc.Find("div.mw-parser-output > p").Each(func(_ int, sel *goquery.Selection) {
		if p := strings.TrimSpace(sel.Text()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	})
	if len(paragraphs) == 0 {
		return "", "", false, nil
	}
	return strings.Join(paragraphs, "\n\n"), pageURL, true, nil
}

// PageURL returns the canonical article URL for a title.
func (c *Client) PageURL(title string) string {
	return c.pageURL + url.PathEscape(title)
}

// Throttle pauses between requests to stay polite to the API. Returns early
// when the context is canceled.
func (c *Client) Throttle(ctx context.Context) {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
	}
}

// stripHTML removes markup, keeping text node content.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
