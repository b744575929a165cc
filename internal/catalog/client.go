// Package catalog implements best-effort search against the remote
// MangaDex-style catalog API. Any failure degrades to an empty result
// set rather than an error; the catalog is a convenience, never a
// dependency.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// DefaultBaseURL is the production catalog API.
const DefaultBaseURL = "https://api.mangadex.org"

// DefaultCoverBaseURL serves cover images.
const DefaultCoverBaseURL = "https://uploads.mangadex.org/covers"

const (
	searchLimit   = 10
	cacheTTL      = 5 * time.Minute
	cacheSweep    = 10 * time.Minute
	searchTimeout = 15 * time.Second
)

// Result is one catalog search hit.
type Result struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags"`
	CoverRef    string   `json:"coverRef,omitempty"`
}

// Client searches the remote catalog. Responses are cached per query for
// a few minutes; the public API rate-limits aggressively.
type Client struct {
	baseURL      string
	coverBaseURL string
	httpClient   *http.Client
	cache        *gocache.Cache
	log          *slog.Logger
}

// NewClient creates a catalog client. Empty URLs select the production
// endpoints.
func NewClient(baseURL, coverBaseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coverBaseURL == "" {
		coverBaseURL = DefaultCoverBaseURL
	}
	return &Client{
		baseURL:      baseURL,
		coverBaseURL: coverBaseURL,
		httpClient:   &http.Client{Timeout: searchTimeout},
		cache:        gocache.New(cacheTTL, cacheSweep),
		log:          slog.With("component", "catalog"),
	}
}

// Search queries the catalog by title. It never returns an error: any
// network, HTTP, or decode failure is logged and yields an empty slice
// so the caller's flow is undisturbed.
func (c *Client) Search(ctx context.Context, query string) []Result {
	if query == "" {
		return []Result{}
	}
	if cached, ok := c.cache.Get(query); ok {
		return cached.([]Result)
	}

	results, err := c.search(ctx, query)
	if err != nil {
		c.log.Warn("catalog search failed", "query", query, "error", err)
		return []Result{}
	}
	c.cache.Set(query, results, gocache.DefaultExpiration)
	return results
}

func (c *Client) search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", fmt.Sprint(searchLimit))
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Add("order[relevance]", "desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/manga?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if payload.Result != "ok" && payload.Data == nil {
		return nil, fmt.Errorf("api result %q", payload.Result)
	}

	results := make([]Result, 0, len(payload.Data))
	for _, entry := range payload.Data {
		results = append(results, entry.toResult())
	}
	return results, nil
}

// CoverURL builds the image URL for a search hit, falling back to the
// shared placeholder when the hit carries no cover reference.
func (c *Client) CoverURL(catalogID, coverRef string) string {
	if coverRef == "" {
		return types.PlaceholderCoverURL
	}
	// The 256px rendition is enough for list views and loads fast.
	return fmt.Sprintf("%s/%s/%s.256.jpg", c.coverBaseURL, catalogID, coverRef)
}

// Wire types for the catalog response. Only the fields we read are
// declared.

type searchResponse struct {
	Result string        `json:"result"`
	Data   []searchEntry `json:"data"`
}

type searchEntry struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       map[string]string `json:"title"`
		Description map[string]string `json:"description"`
		Tags        []struct {
			Attributes struct {
				Group string            `json:"group"`
				Name  map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []struct {
		Type       string `json:"type"`
		Attributes struct {
			Name     string `json:"name"`
			FileName string `json:"fileName"`
		} `json:"attributes"`
	} `json:"relationships"`
}

func (e searchEntry) toResult() Result {
	title := e.Attributes.Title["en"]
	if title == "" {
		for _, v := range e.Attributes.Title {
			title = v
			break
		}
	}
	if title == "" {
		title = "Unknown Title"
	}

	r := Result{
		ID:          e.ID,
		Title:       title,
		Description: e.Attributes.Description["en"],
		Tags:        []string{},
	}
	for _, rel := range e.Relationships {
		switch rel.Type {
		case "author":
			if r.Author == "" {
				r.Author = rel.Attributes.Name
			}
		case "cover_art":
			if r.CoverRef == "" {
				r.CoverRef = rel.Attributes.FileName
			}
		}
	}
	for _, tag := range e.Attributes.Tags {
		group := tag.Attributes.Group
		if group != "genre" && group != "theme" {
			continue
		}
		if name := tag.Attributes.Name["en"]; name != "" {
			r.Tags = append(r.Tags, name)
		}
	}
	return r
}
