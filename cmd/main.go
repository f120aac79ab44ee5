package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"streamvault-bot/bot"
	"streamvault-bot/catalog"
	"streamvault-bot/config"
	"streamvault-bot/health"
	"streamvault-bot/ledger"
	"streamvault-bot/message"
	"streamvault-bot/notifier"
	"streamvault-bot/scheduler"
	"streamvault-bot/storage"
)

// autoPostInterval is how often the auto-post pipeline runs.
const autoPostInterval = 30 * time.Minute

// autoPostStartupDelay is how long after startup the first run fires.
const autoPostStartupDelay = 10 * time.Second

func main() {
	// Initialize logger with timestamp
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting StreamVault Bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize the delivery archive
	archive := storage.NewSQLiteStorage(cfg.DataPath)
	if err := archive.Initialize(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer archive.Close()

	// Catalog client and shared cache
	client := catalog.NewClient(cfg.ShowsAPI, cfg.MoviesAPI)
	cache := catalog.NewCache(client)

	formatter := &message.Formatter{
		BaseURL:    cfg.BaseURL,
		InviteLink: cfg.ChannelInviteLink,
	}

	ledgerStore := ledger.NewStore(cfg.PostedContentFile)

	// Telegram transport
	tgBot, err := bot.New(cfg.BotToken, cfg.ChannelID)
	if err != nil {
		log.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Optional email digest
	var emailNotifier *notifier.EmailNotifier
	if cfg.Email.SMTPHost != "" && cfg.Email.RecipientEmail != "" {
		emailNotifier, err = notifier.NewEmailNotifier(cfg.Email)
		if err != nil {
			log.Printf("Failed to create email notifier: %v", err)
			emailNotifier = nil
		} else {
			log.Printf("Email digests will be sent to: %s", cfg.Email.RecipientEmail)
		}
	} else {
		log.Println("Email digests disabled: missing configuration")
	}

	// Refresh cache on startup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.Refresh(ctx)

	// Auto-post pipeline on a fixed interval, first run shortly after start
	autoPostJob := scheduler.NewAutoPostJob(cache, ledgerStore, archive, formatter, tgBot, emailNotifier)

	sched := scheduler.NewScheduler()
	if err := sched.AddIntervalJob(autoPostInterval, autoPostJob); err != nil {
		log.Fatalf("Failed to schedule auto-post job: %v", err)
	}
	sched.Start()
	log.Printf("Auto-post scheduled every %s to channel %s", autoPostInterval, cfg.ChannelID)

	time.AfterFunc(autoPostStartupDelay, func() {
		if err := sched.RunJobNow(autoPostJob.Name()); err != nil {
			log.Printf("Error running initial auto-post: %v", err)
		}
	})

	// Health check listener for platform keep-alives
	go func() {
		if err := health.ListenAndServe(cfg.HealthPort); err != nil {
			log.Printf("Health check server error: %v", err)
		}
	}()

	// Command loop
	dispatcher := bot.NewDispatcher(cache, formatter, autoPostJob, cfg.WebsiteURL, cfg.ChannelInviteLink)
	go tgBot.Listen(ctx, dispatcher)

	displayArchiveStats(archive)

	// Set up signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Bot running. Press Ctrl+C to exit")

	sig := <-quit
	log.Printf("Received signal %s, shutting down...", sig)

	cancel()
	sched.Stop()
}

// displayArchiveStats logs delivery archive statistics at startup.
func displayArchiveStats(archive *storage.SQLiteStorage) {
	stats, err := archive.GetStats()
	if err != nil {
		log.Printf("Error getting archive stats: %v", err)
		return
	}

	log.Printf("Posts delivered so far: %d (%d shows, %d movies)",
		stats["total"], stats["shows"], stats["movies"])

	recent, err := archive.GetRecentPosts(5)
	if err != nil {
		log.Printf("Error getting recent posts: %v", err)
		return
	}

	for _, post := range recent {
		year := ""
		if post.Year != nil {
			year = fmt.Sprintf(" (%d)", *post.Year)
		}
		log.Printf("- %s%s [%s] posted %s", post.Title, year, post.Kind, post.PostedAt.Format("2006-01-02 15:04"))
	}
}
