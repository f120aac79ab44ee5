package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"streamvault-bot/catalog"
	"streamvault-bot/message"
	"streamvault-bot/scheduler"
)

// mockReplier collects everything a handler replies with.
type mockReplier struct {
	texts    []string
	photos   []string
	photoErr error
}

func (r *mockReplier) Text(text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func (r *mockReplier) TextNoPreview(text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func (r *mockReplier) Photo(photoURL, caption string) error {
	if r.photoErr != nil {
		return r.photoErr
	}
	r.photos = append(r.photos, photoURL)
	return nil
}

// mockPostJob stands in for the auto-post pipeline.
type mockPostJob struct {
	runCount int
	err      error
}

func (j *mockPostJob) Name() string { return "auto_post" }

func (j *mockPostJob) Run(ctx context.Context) error {
	j.runCount++
	return j.err
}

type testEnv struct {
	dispatcher *Dispatcher
	job        *mockPostJob
	requests   *atomic.Int64
}

func newTestEnv(t *testing.T, shows, movies string) *testEnv {
	t.Helper()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if strings.Contains(r.URL.Path, "movies") {
			w.Write([]byte(movies))
		} else {
			w.Write([]byte(shows))
		}
	}))
	t.Cleanup(server.Close)

	cache := catalog.NewCache(catalog.NewClient(server.URL+"/api/shows", server.URL+"/api/movies"))
	formatter := &message.Formatter{BaseURL: "https://streamvault.live", InviteLink: "https://t.me/streamvaultt"}
	job := &mockPostJob{}

	return &testEnv{
		dispatcher: NewDispatcher(cache, formatter, job, "https://streamvault.live", "https://t.me/streamvaultt"),
		job:        job,
		requests:   &requests,
	}
}

func TestStartAndHelp(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "start", "", r)
	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "Welcome to StreamVault Bot") {
		t.Errorf("Unexpected /start reply: %v", r.texts)
	}

	r = &mockReplier{}
	env.dispatcher.Handle(context.Background(), "help", "", r)
	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "/search <query>") {
		t.Errorf("Unexpected /help reply: %v", r.texts)
	}

	// Static commands never touch the catalog.
	if n := env.requests.Load(); n != 0 {
		t.Errorf("Expected no catalog requests, saw %d", n)
	}
}

func TestSearchWithoutQuery(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "search", "   ", r)

	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "provide a search query") {
		t.Fatalf("Expected usage error reply, got %v", r.texts)
	}
	if n := env.requests.Load(); n != 0 {
		t.Errorf("A missing query must not trigger catalog access, saw %d requests", n)
	}
}

func TestSearchMatchesCaseInsensitive(t *testing.T) {
	env := newTestEnv(t,
		`[{"id":"s1","title":"Breaking Bad","slug":"bb","imdbRating":"9.5"}]`,
		`[{"id":"m1","title":"Bad Boys","slug":"badboys","imdbRating":"6.8"}]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "search", "BAD", r)

	if len(r.texts) != 1 {
		t.Fatalf("Expected one reply, got %d", len(r.texts))
	}
	reply := r.texts[0]
	if !strings.Contains(reply, "Breaking Bad") || !strings.Contains(reply, "Bad Boys") {
		t.Errorf("Expected both matches in reply:\n%s", reply)
	}
	if !strings.Contains(reply, "*Results for:* _bad_") {
		t.Errorf("Expected query echo in reply:\n%s", reply)
	}
}

func TestSearchCapsResultsPerKind(t *testing.T) {
	var shows []string
	for i := 0; i < 8; i++ {
		shows = append(shows, fmt.Sprintf(`{"id":"s%d","title":"Match %d","slug":"m%d"}`, i, i, i))
	}
	env := newTestEnv(t, "["+strings.Join(shows, ",")+"]", `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "search", "match", r)

	if len(r.texts) != 1 {
		t.Fatalf("Expected one reply, got %d", len(r.texts))
	}
	if n := strings.Count(r.texts[0], "▸ "); n != 5 {
		t.Errorf("Expected 5 results, got %d:\n%s", n, r.texts[0])
	}
}

func TestSearchNoResults(t *testing.T) {
	env := newTestEnv(t, `[{"id":"s1","title":"A","slug":"a"}]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "search", "zzz", r)

	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "No results found") {
		t.Errorf("Expected no-results reply, got %v", r.texts)
	}
}

func TestLatestShowsFiveOfEach(t *testing.T) {
	var shows, movies []string
	for i := 0; i < 8; i++ {
		shows = append(shows, fmt.Sprintf(`{"id":"s%d","title":"Show %d","slug":"s%d"}`, i, i, i))
		movies = append(movies, fmt.Sprintf(`{"id":"m%d","title":"Movie %d","slug":"m%d"}`, i, i, i))
	}
	env := newTestEnv(t, "["+strings.Join(shows, ",")+"]", "["+strings.Join(movies, ",")+"]")

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "latest", "", r)

	if len(r.texts) != 1 {
		t.Fatalf("Expected one reply, got %d", len(r.texts))
	}
	if n := strings.Count(r.texts[0], "▸ "); n != 10 {
		t.Errorf("Expected 5 shows + 5 movies, got %d entries:\n%s", n, r.texts[0])
	}
	// Cache order is preserved, not re-sorted.
	if !strings.Contains(r.texts[0], "Show 0") || strings.Contains(r.texts[0], "Show 7") {
		t.Errorf("Expected the first five in cache order:\n%s", r.texts[0])
	}
}

func TestMoviesDigest(t *testing.T) {
	env := newTestEnv(t, `[]`, `[{"id":"m1","title":"Inception","slug":"inception","imdbRating":"8.8"}]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "movies", "", r)

	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "*Latest Movies:*") {
		t.Errorf("Unexpected /movies reply: %v", r.texts)
	}
	if !strings.Contains(r.texts[0], "Inception") {
		t.Errorf("Expected the movie in reply:\n%s", r.texts[0])
	}
}

func TestRandomEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "random", "", r)

	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "No content available") {
		t.Errorf("Expected no-content reply, got %v", r.texts)
	}
	// An empty cache still triggers one refresh attempt.
	if n := env.requests.Load(); n == 0 {
		t.Error("Expected a refresh attempt before giving up")
	}
}

func TestRandomFallsBackToTextOnPhotoFailure(t *testing.T) {
	env := newTestEnv(t, `[{"id":"s1","title":"Only","slug":"only","posterUrl":"https://img.example/p.jpg"}]`, `[]`)

	r := &mockReplier{photoErr: errors.New("telegram rejected the image")}
	env.dispatcher.Handle(context.Background(), "random", "", r)

	if len(r.photos) != 0 {
		t.Errorf("Photo should have failed, got %v", r.photos)
	}
	if len(r.texts) != 1 || !strings.Contains(r.texts[0], "*ONLY*") {
		t.Errorf("Expected text fallback with the formatted item, got %v", r.texts)
	}
}

func TestRandomSendsPhoto(t *testing.T) {
	env := newTestEnv(t, `[{"id":"s1","title":"Only","slug":"only","posterUrl":"https://img.example/p.jpg"}]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "random", "", r)

	if len(r.photos) != 1 || r.photos[0] != "https://img.example/p.jpg" {
		t.Errorf("Expected photo reply with poster, got %v / %v", r.photos, r.texts)
	}
}

func TestPostRunsPipeline(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "post", "", r)

	if env.job.runCount != 1 {
		t.Errorf("Expected the pipeline to run once, ran %d times", env.job.runCount)
	}
	if len(r.texts) != 2 || !strings.Contains(r.texts[1], "Done") {
		t.Errorf("Expected trigger + completion replies, got %v", r.texts)
	}
}

func TestPostReportsRunInProgress(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)
	env.job.err = scheduler.ErrRunInProgress

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "post", "", r)

	if len(r.texts) != 2 || !strings.Contains(r.texts[1], "already in progress") {
		t.Errorf("Expected run-in-progress reply, got %v", r.texts)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	env := newTestEnv(t, `[]`, `[]`)

	r := &mockReplier{}
	env.dispatcher.Handle(context.Background(), "banana", "", r)

	if len(r.texts) != 0 || len(r.photos) != 0 {
		t.Errorf("Unknown commands must be ignored, got %v / %v", r.texts, r.photos)
	}
}
