package discovery

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/stagelist/venue-cli/internal/resilience"
)

// searchResult is one parsed result-listing entry.
type searchResult struct {
	Name    string
	Link    string
	Snippet string
}

// HTTPSearchClient queries the DuckDuckGo HTML endpoint, which serves
// result listings without JavaScript.
type HTTPSearchClient struct {
	http    *http.Client
	baseURL string
}

// NewHTTPSearchClient creates an HTTPSearchClient with the given per-query
// timeout.
func NewHTTPSearchClient(timeout time.Duration) *HTTPSearchClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSearchClient{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		baseURL: "https://html.duckduckgo.com/html/",
	}
}

// Search fetches the result listing for a query.
func (c *HTTPSearchClient) Search(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", eris.Wrap(err, "search: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VenueBot/1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "search: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", eris.Wrap(err, "search: read body")
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", resilience.Transient(eris.Errorf("search: status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return "", eris.Errorf("search: status %d", resp.StatusCode)
	}

	return string(body), nil
}

// parseResults extracts name, link, and snippet from result-listing HTML.
func parseResults(html string) []searchResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var results []searchResult
	doc.Find("div.result").Each(func(_ int, s *goquery.Selection) {
		a := s.Find("a.result__a").First()
		name := strings.TrimSpace(a.Text())
		if name == "" {
			return
		}
		href, _ := a.Attr("href")
		results = append(results, searchResult{
			Name:    name,
			Link:    resolveLink(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
	})
	return results
}

// resolveLink unwraps the redirect URLs the HTML endpoint serves
// (/l/?uddg=<escaped target>).
func resolveLink(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
