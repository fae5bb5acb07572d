package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result is one organic web-search hit.
type Result struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Client queries SerpAPI for organic Google results. A client without an API
// key is valid but disabled; callers are expected to check Enabled and skip
// the search feature entirely when the credential is absent.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://serpapi.com",
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

type serpResponse struct {
	OrganicResults []Result `json:"organic_results"`
}

// Search returns up to num organic results for the query, in the engine's
// relevance order.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("search client disabled: missing api key")
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search api status %d", resp.StatusCode)
	}

	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		if r.Link == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
