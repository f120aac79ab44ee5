package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// fetchTimeout bounds a single catalog API call. There is no retry here;
// the next scheduled refresh is the retry.
const fetchTimeout = 30 * time.Second

// Client fetches content lists from the StreamVault API. Failures are
// logged and degrade to an empty list so callers never have to branch on
// a fetch error.
type Client struct {
	showsURL  string
	moviesURL string
	client    *http.Client
}

// NewClient creates a catalog client for the given API endpoints.
func NewClient(showsURL, moviesURL string) *Client {
	return &Client{
		showsURL:  showsURL,
		moviesURL: moviesURL,
		client: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// FetchShows returns the current show list, or an empty slice on any failure.
func (c *Client) FetchShows(ctx context.Context) []Show {
	var shows []Show
	if err := c.fetch(ctx, c.showsURL, &shows); err != nil {
		log.Printf("Error fetching from %s: %v", c.showsURL, err)
		return nil
	}
	return shows
}

// FetchMovies returns the current movie list, or an empty slice on any failure.
func (c *Client) FetchMovies(ctx context.Context) []Movie {
	var movies []Movie
	if err := c.fetch(ctx, c.moviesURL, &movies); err != nil {
		log.Printf("Error fetching from %s: %v", c.moviesURL, err)
		return nil
	}
	return movies
}

func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
