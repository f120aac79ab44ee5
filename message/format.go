// Package message builds the Markdown payloads the bot sends. Formatting is
// pure string assembly over catalog records; delivery is someone else's job.
package message

import (
	"fmt"
	"strings"

	"streamvault-bot/catalog"
)

const (
	// synopsisLimit is the maximum synopsis length including the ellipsis.
	synopsisLimit = 200

	// DigestLimit is the default number of entries in a list-style reply.
	DigestLimit = 10

	// Divider separates message sections; replies build with it too.
	Divider = "━━━━━━━━━━━━━━━━━━━━━"
)

// Formatter renders catalog records into Telegram Markdown. BaseURL is the
// StreamVault site root used for watch links; InviteLink is the channel
// promotion appended to every message.
type Formatter struct {
	BaseURL    string
	InviteLink string
}

// Show formats a TV show into a single message block.
func (f *Formatter) Show(s catalog.Show) string {
	parts := []string{
		"📺 *" + strings.ToUpper(s.Title) + "*" + yearSuffix(s.Year),
		"",
		fmt.Sprintf("⭐ %s │ 🎭 %s", s.IMDBRating, s.Genres),
		fmt.Sprintf("🌐 %s", s.Language),
		"",
		fmt.Sprintf("📖 _%s_", Truncate(s.Description, synopsisLimit)),
		"",
		Divider,
	}

	if s.TotalSeasons > 0 {
		parts = append(parts, fmt.Sprintf("📂 *Seasons Available:* %d", s.TotalSeasons), "")

		links := make([]string, 0, s.TotalSeasons)
		for n := 1; n <= s.TotalSeasons; n++ {
			watchURL := fmt.Sprintf("%s/watch/%s?season=%d&episode=1", f.BaseURL, s.Slug, n)
			links = append(links, fmt.Sprintf("[S%d](%s)", n, watchURL))
		}
		for i := 0; i < len(links); i += 5 {
			end := i + 5
			if end > len(links) {
				end = len(links)
			}
			parts = append(parts, "▸ "+strings.Join(links[i:end], " │ "))
		}

		parts = append(parts, "", Divider)
	}

	if s.Cast != "" {
		parts = append(parts, "", "🎭 *Cast:* "+truncateCast(s.Cast))
	}

	parts = append(parts,
		"",
		fmt.Sprintf("🔗 *Watch:* [StreamVault](%s/shows/%s)", f.BaseURL, s.Slug),
		"📢 *Join:* "+f.InviteLink,
	)

	return strings.Join(parts, "\n")
}

// Movie formats a movie into a single message block.
func (f *Formatter) Movie(m catalog.Movie) string {
	metaLine := fmt.Sprintf("⭐ %s │ 🎭 %s", m.IMDBRating, m.Genres)
	if m.Duration != nil {
		metaLine += fmt.Sprintf(" │ ⏱ %d min", *m.Duration)
	}

	parts := []string{
		"🎬 *" + strings.ToUpper(m.Title) + "*" + yearSuffix(m.Year),
		"",
		metaLine,
		fmt.Sprintf("🌐 %s", m.Language),
		"",
		fmt.Sprintf("📖 _%s_", Truncate(m.Description, synopsisLimit)),
		"",
		Divider,
	}

	if m.Directors != "" {
		parts = append(parts, "🎬 *Director:* "+m.Directors)
	}
	if m.Cast != "" {
		parts = append(parts, "🎭 *Cast:* "+truncateCast(m.Cast))
	}

	parts = append(parts,
		Divider,
		"",
		fmt.Sprintf("🔗 *Watch:* [StreamVault](%s/movies/%s)", f.BaseURL, m.Slug),
		"📢 *Join:* "+f.InviteLink,
	)

	return strings.Join(parts, "\n")
}

// Entry is the minimal view of a content item that list-style replies need.
type Entry struct {
	Title  string
	Year   *int
	Rating string
	Slug   string
}

// ShowEntries projects shows into digest entries, preserving cache order.
func ShowEntries(shows []catalog.Show) []Entry {
	entries := make([]Entry, 0, len(shows))
	for _, s := range shows {
		entries = append(entries, Entry{Title: s.Title, Year: s.Year, Rating: s.IMDBRating, Slug: s.Slug})
	}
	return entries
}

// MovieEntries projects movies into digest entries, preserving cache order.
func MovieEntries(movies []catalog.Movie) []Entry {
	entries := make([]Entry, 0, len(movies))
	for _, m := range movies {
		entries = append(entries, Entry{Title: m.Title, Year: m.Year, Rating: m.IMDBRating, Slug: m.Slug})
	}
	return entries
}

// Digest formats up to limit entries of one kind as a linked list reply.
func (f *Formatter) Digest(entries []Entry, kind catalog.Kind, limit int) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No %s available.", kind)
	}
	if limit <= 0 {
		limit = DigestLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	emoji := "🎬"
	if kind == catalog.KindShow {
		emoji = "📺"
	}

	lines := []string{fmt.Sprintf("*Latest %s:*", titleCase(string(kind))), ""}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s [%s](%s)%s ⭐%s",
			emoji, e.Title, f.watchURL(kind, e.Slug), yearSuffix(e.Year), e.Rating))
	}
	lines = append(lines, "", "📢 *Join:* "+f.InviteLink)

	return strings.Join(lines, "\n")
}

// EntryLine renders one "▸ [Title](url) ⭐rating" row for search and latest
// replies.
func (f *Formatter) EntryLine(e Entry, kind catalog.Kind) string {
	return fmt.Sprintf("▸ [%s](%s) ⭐%s", e.Title, f.watchURL(kind, e.Slug), e.Rating)
}

func (f *Formatter) watchURL(kind catalog.Kind, slug string) string {
	return fmt.Sprintf("%s/%s/%s", f.BaseURL, kind, slug)
}

// Truncate shortens text to at most max characters including the ellipsis,
// breaking at the last whitespace boundary before the limit so a word is
// never split. Short strings pass through unchanged.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := string(runes[:max-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// truncateCast keeps the first four comma-separated names, marking overflow.
func truncateCast(cast string) string {
	names := strings.Split(cast, ", ")
	if len(names) <= 4 {
		return cast
	}
	return strings.Join(names[:4], ", ") + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func yearSuffix(year *int) string {
	if year == nil {
		return ""
	}
	return fmt.Sprintf(" (%d)", *year)
}
