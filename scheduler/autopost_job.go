package scheduler

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"streamvault-bot/catalog"
	"streamvault-bot/ledger"
	"streamvault-bot/message"
	"streamvault-bot/notifier"
	"streamvault-bot/storage"
)

// ErrRunInProgress is returned when a trigger arrives while a run is active.
// At most one pipeline execution runs at a time; concurrent triggers are
// rejected, not queued.
var ErrRunInProgress = errors.New("auto-post run already in progress")

// maxPostsPerRun caps successful sends per run to avoid spamming the channel.
const maxPostsPerRun = 5

// postDelay is the pacing delay after each successful send.
const postDelay = 3 * time.Second

// ChannelSender delivers formatted content to the channel.
type ChannelSender interface {
	SendText(text string) error
	SendPhoto(photoURL, caption string) error
}

// AutoPostJob scans the refreshed catalog against the posted-content ledger
// and delivers new items to the channel: shows first, then movies, in cache
// order, stopping the moment the per-run cap is reached.
type AutoPostJob struct {
	cache         *catalog.Cache
	ledgerStore   *ledger.Store
	archive       *storage.SQLiteStorage
	formatter     *message.Formatter
	sender        ChannelSender
	emailNotifier *notifier.EmailNotifier
	sendEmails    bool

	mu    sync.Mutex
	delay time.Duration
}

// NewAutoPostJob creates the auto-post pipeline job. The archive and email
// notifier are optional; pass nil to disable them.
func NewAutoPostJob(cache *catalog.Cache, ledgerStore *ledger.Store, archive *storage.SQLiteStorage, formatter *message.Formatter, sender ChannelSender, emailNotifier *notifier.EmailNotifier) *AutoPostJob {
	return &AutoPostJob{
		cache:         cache,
		ledgerStore:   ledgerStore,
		archive:       archive,
		formatter:     formatter,
		sender:        sender,
		emailNotifier: emailNotifier,
		sendEmails:    emailNotifier != nil,
		delay:         postDelay,
	}
}

// Name returns the name of the job
func (j *AutoPostJob) Name() string {
	return "auto_post"
}

// Run executes one pipeline run.
func (j *AutoPostJob) Run(ctx context.Context) error {
	if !j.mu.TryLock() {
		return ErrRunInProgress
	}
	defer j.mu.Unlock()

	log.Println("Running auto-post job...")

	// Refresh unconditionally to get the latest content, then load the
	// ledger once for the whole run.
	j.cache.Refresh(ctx)
	posted := j.ledgerStore.Load()

	shows, movies := j.cache.Snapshot()
	postedCount := 0
	var delivered []storage.PostRecord

	for _, show := range shows {
		if postedCount >= maxPostsPerRun {
			break
		}
		if posted.Has(catalog.KindShow, show.ID) {
			continue
		}

		if err := j.deliver(show.PosterURL, j.formatter.Show(show)); err != nil {
			log.Printf("Error auto-posting show %s: %v", show.Title, err)
			continue
		}

		j.markPosted(posted, catalog.KindShow, show.ID)
		rec := storage.PostRecord{
			ContentID: show.ID,
			Kind:      string(catalog.KindShow),
			Title:     show.Title,
			Year:      show.Year,
			Rating:    &show.IMDBRating,
			PostedAt:  time.Now(),
		}
		j.recordPost(rec)
		delivered = append(delivered, rec)
		postedCount++
		log.Printf("Auto-posted show: %s", show.Title)

		if err := j.pause(ctx); err != nil {
			return err
		}
	}

	for _, movie := range movies {
		if postedCount >= maxPostsPerRun {
			break
		}
		if posted.Has(catalog.KindMovie, movie.ID) {
			continue
		}

		if err := j.deliver(movie.PosterURL, j.formatter.Movie(movie)); err != nil {
			log.Printf("Error auto-posting movie %s: %v", movie.Title, err)
			continue
		}

		j.markPosted(posted, catalog.KindMovie, movie.ID)
		rec := storage.PostRecord{
			ContentID: movie.ID,
			Kind:      string(catalog.KindMovie),
			Title:     movie.Title,
			Year:      movie.Year,
			Rating:    &movie.IMDBRating,
			PostedAt:  time.Now(),
		}
		j.recordPost(rec)
		delivered = append(delivered, rec)
		postedCount++
		log.Printf("Auto-posted movie: %s", movie.Title)

		if err := j.pause(ctx); err != nil {
			return err
		}
	}

	if postedCount > 0 {
		log.Printf("Auto-posted %d new items", postedCount)
	} else {
		log.Println("No new content to post")
	}

	if j.sendEmails && len(delivered) > 0 {
		if err := j.emailNotifier.NotifyPostedContent(delivered); err != nil {
			log.Printf("Failed to send email notification: %v", err)
		}
	}

	return nil
}

// deliver sends a photo with caption when the poster URL is usable,
// otherwise plain text.
func (j *AutoPostJob) deliver(posterURL, text string) error {
	if strings.HasPrefix(posterURL, "http") {
		return j.sender.SendPhoto(posterURL, text)
	}
	return j.sender.SendText(text)
}

// markPosted records the id in the ledger and persists immediately, so a
// crash mid-run loses at most the in-flight item. A failed save is a
// warning: the in-memory ledger still prevents a double send this run.
func (j *AutoPostJob) markPosted(posted *ledger.Ledger, kind catalog.Kind, id string) {
	posted.Add(kind, id)
	if err := j.ledgerStore.Save(posted); err != nil {
		log.Printf("Warning: failed to persist posted content: %v", err)
	}
}

// recordPost archives the delivery. The ledger alone gates dedup, so an
// archive failure never aborts the run.
func (j *AutoPostJob) recordPost(rec storage.PostRecord) {
	if j.archive == nil {
		return
	}
	if err := j.archive.RecordPost(rec); err != nil {
		log.Printf("Error archiving post %s: %v", rec.Title, err)
	}
}

// pause waits the pacing delay between posts, giving up early on shutdown.
func (j *AutoPostJob) pause(ctx context.Context) error {
	timer := time.NewTimer(j.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
