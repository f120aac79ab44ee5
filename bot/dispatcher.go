package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"streamvault-bot/catalog"
	"streamvault-bot/message"
	"streamvault-bot/scheduler"
)

// searchResultsPerKind caps search replies per content kind.
const searchResultsPerKind = 5

// latestPerKind caps the /latest reply per content kind.
const latestPerKind = 5

// Dispatcher routes bot commands to their handlers. Handlers read the shared
// cache (refreshing lazily when it is empty) and reply through the Replier;
// only /post mutates anything, by invoking the auto-post pipeline.
type Dispatcher struct {
	cache      *catalog.Cache
	formatter  *message.Formatter
	postJob    scheduler.Job
	websiteURL string
	inviteLink string
}

// NewDispatcher creates a dispatcher over the shared cache and pipeline job.
func NewDispatcher(cache *catalog.Cache, formatter *message.Formatter, postJob scheduler.Job, websiteURL, inviteLink string) *Dispatcher {
	return &Dispatcher{
		cache:      cache,
		formatter:  formatter,
		postJob:    postJob,
		websiteURL: websiteURL,
		inviteLink: inviteLink,
	}
}

// Handle runs the handler for one inbound command. Unknown commands are
// ignored; reply failures are logged, never returned to the update loop.
func (d *Dispatcher) Handle(ctx context.Context, command, args string, r Replier) {
	var err error
	switch command {
	case "start":
		err = d.handleStart(r)
	case "help":
		err = d.handleHelp(r)
	case "latest":
		err = d.handleLatest(ctx, r)
	case "movies":
		err = d.handleMovies(ctx, r)
	case "shows":
		err = d.handleShows(ctx, r)
	case "search":
		err = d.handleSearch(ctx, args, r)
	case "random":
		err = d.handleRandom(ctx, r)
	case "post":
		err = d.handlePost(ctx, r)
	default:
		return
	}

	if err != nil {
		log.Printf("Error handling /%s: %v", command, err)
	}
}

func (d *Dispatcher) handleStart(r Replier) error {
	welcome := strings.Join([]string{
		"🎬 *Welcome to StreamVault Bot!*",
		"",
		"Your gateway to free movies & TV shows.",
		"",
		message.Divider,
		"",
		"*Commands:*",
		"/latest - Latest movies & shows",
		"/movies - Browse movies",
		"/shows - Browse TV shows",
		"/search <query> - Search content",
		"/random - Random recommendation",
		"/help - Get help",
		"",
		message.Divider,
		"",
		"🤖 *Auto-updates every 30 mins!*",
		"",
		"🌐 *Website:* " + d.websiteURL,
		"📢 *Channel:* " + d.inviteLink,
	}, "\n")

	return r.Text(welcome)
}

func (d *Dispatcher) handleHelp(r Replier) error {
	help := strings.Join([]string{
		"📖 *StreamVault Bot Help*",
		"",
		message.Divider,
		"",
		"*Commands:*",
		"/start - Welcome message",
		"/latest - Show latest content",
		"/movies - Browse recent movies",
		"/shows - Browse TV shows",
		"/search <query> - Search for content",
		"/random - Random recommendation",
		"",
		"*Examples:*",
		"• `/search Breaking Bad`",
		"• `/search Inception`",
		"",
		message.Divider,
		"",
		"🤖 Bot auto-posts new content every 30 minutes!",
		"",
		"📢 *Channel:* " + d.inviteLink,
		"🌐 *Website:* " + d.websiteURL,
	}, "\n")

	return r.Text(help)
}

func (d *Dispatcher) handleLatest(ctx context.Context, r Replier) error {
	d.cache.RefreshIfEmpty(ctx, true, true)
	shows, movies := d.cache.Snapshot()

	if len(shows) > latestPerKind {
		shows = shows[:latestPerKind]
	}
	if len(movies) > latestPerKind {
		movies = movies[:latestPerKind]
	}

	parts := []string{"🆕 *Latest on StreamVault*", "", message.Divider, "", "*📺 TV Shows:*"}
	for _, e := range message.ShowEntries(shows) {
		parts = append(parts, d.formatter.EntryLine(e, catalog.KindShow))
	}

	parts = append(parts, "", "*🎬 Movies:*")
	for _, e := range message.MovieEntries(movies) {
		parts = append(parts, d.formatter.EntryLine(e, catalog.KindMovie))
	}

	parts = append(parts, "", message.Divider, "📢 *Join:* "+d.inviteLink)

	return r.TextNoPreview(strings.Join(parts, "\n"))
}

func (d *Dispatcher) handleMovies(ctx context.Context, r Replier) error {
	d.cache.RefreshIfEmpty(ctx, false, true)
	_, movies := d.cache.Snapshot()

	return r.TextNoPreview(d.formatter.Digest(message.MovieEntries(movies), catalog.KindMovie, message.DigestLimit))
}

func (d *Dispatcher) handleShows(ctx context.Context, r Replier) error {
	d.cache.RefreshIfEmpty(ctx, true, false)
	shows, _ := d.cache.Snapshot()

	return r.TextNoPreview(d.formatter.Digest(message.ShowEntries(shows), catalog.KindShow, message.DigestLimit))
}

func (d *Dispatcher) handleSearch(ctx context.Context, args string, r Replier) error {
	query := strings.ToLower(strings.TrimSpace(args))
	if query == "" {
		return r.Text("❌ Please provide a search query.\n\nExample: `/search Breaking Bad`")
	}

	d.cache.RefreshIfEmpty(ctx, true, true)
	shows, movies := d.cache.Snapshot()

	var matchingShows []message.Entry
	for _, s := range shows {
		if len(matchingShows) >= searchResultsPerKind {
			break
		}
		if strings.Contains(strings.ToLower(s.Title), query) {
			matchingShows = append(matchingShows, message.Entry{Title: s.Title, Year: s.Year, Rating: s.IMDBRating, Slug: s.Slug})
		}
	}

	var matchingMovies []message.Entry
	for _, m := range movies {
		if len(matchingMovies) >= searchResultsPerKind {
			break
		}
		if strings.Contains(strings.ToLower(m.Title), query) {
			matchingMovies = append(matchingMovies, message.Entry{Title: m.Title, Year: m.Year, Rating: m.IMDBRating, Slug: m.Slug})
		}
	}

	if len(matchingShows) == 0 && len(matchingMovies) == 0 {
		return r.Text(fmt.Sprintf("❌ No results found for: *%s*", query))
	}

	parts := []string{fmt.Sprintf("🔍 *Results for:* _%s_", query), "", message.Divider}

	if len(matchingShows) > 0 {
		parts = append(parts, "", "*📺 TV Shows:*")
		for _, e := range matchingShows {
			parts = append(parts, d.formatter.EntryLine(e, catalog.KindShow))
		}
	}

	if len(matchingMovies) > 0 {
		parts = append(parts, "", "*🎬 Movies:*")
		for _, e := range matchingMovies {
			parts = append(parts, d.formatter.EntryLine(e, catalog.KindMovie))
		}
	}

	parts = append(parts, "", "📢 *Join:* "+d.inviteLink)

	return r.TextNoPreview(strings.Join(parts, "\n"))
}

func (d *Dispatcher) handleRandom(ctx context.Context, r Replier) error {
	d.cache.RefreshIfEmpty(ctx, true, true)
	shows, movies := d.cache.Snapshot()

	total := len(shows) + len(movies)
	if total == 0 {
		return r.Text("❌ No content available.")
	}

	var text, poster string
	if pick := rand.Intn(total); pick < len(shows) {
		text = d.formatter.Show(shows[pick])
		poster = shows[pick].PosterURL
	} else {
		text = d.formatter.Movie(movies[pick-len(shows)])
		poster = movies[pick-len(shows)].PosterURL
	}

	if strings.HasPrefix(poster, "http") {
		if err := r.Photo(poster, text); err == nil {
			return nil
		}
		// Poster rejected by Telegram; the text still has the watch link.
	}
	return r.TextNoPreview(text)
}

func (d *Dispatcher) handlePost(ctx context.Context, r Replier) error {
	if err := r.Text("📤 Triggering content post to channel..."); err != nil {
		return err
	}

	if err := d.postJob.Run(ctx); err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			return r.Text("⏳ An auto-post run is already in progress.")
		}
		return err
	}

	return r.Text("✅ Done!")
}
