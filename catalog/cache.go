package catalog

import (
	"context"
	"log"
	"sync"
)

// Cache is the process-wide snapshot of catalog content. Refresh replaces
// both lists wholesale; there is no merging and no expiry beyond replacement.
// It is shared by the command dispatcher and the auto-post job.
type Cache struct {
	client *Client

	mu     sync.RWMutex
	shows  []Show
	movies []Movie
}

// NewCache creates an empty cache backed by the given client.
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Refresh fetches both lists and swaps them in. A failed fetch yields an
// empty list for that kind, not a retained stale one.
func (c *Cache) Refresh(ctx context.Context) {
	shows := c.client.FetchShows(ctx)
	movies := c.client.FetchMovies(ctx)

	c.mu.Lock()
	c.shows = shows
	c.movies = movies
	c.mu.Unlock()

	log.Printf("Cache refreshed: %d shows, %d movies", len(shows), len(movies))
}

// Snapshot returns the current lists. It never blocks on I/O and never
// triggers a fetch.
func (c *Cache) Snapshot() ([]Show, []Movie) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shows, c.movies
}

// RefreshIfEmpty refreshes synchronously when a kind the caller needs has
// no cached entries. Command handlers use this lazy policy; the auto-post
// job refreshes unconditionally instead.
func (c *Cache) RefreshIfEmpty(ctx context.Context, needShows, needMovies bool) {
	c.mu.RLock()
	empty := (needShows && len(c.shows) == 0) || (needMovies && len(c.movies) == 0)
	c.mu.RUnlock()

	if empty {
		c.Refresh(ctx)
	}
}
