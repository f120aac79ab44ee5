package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the bot, loaded from the
// environment at startup.
type Config struct {
	// Telegram
	BotToken  string
	ChannelID string

	// StreamVault catalog
	BaseURL   string
	ShowsAPI  string
	MoviesAPI string

	// Persistence
	PostedContentFile string
	DataPath          string

	// Promotion
	ChannelInviteLink string
	WebsiteURL        string

	// Health check
	HealthPort string

	// Email digest (optional)
	Email EmailConfig
}

// EmailConfig contains SMTP settings for the digest notifier. The notifier
// is disabled unless SMTPHost and RecipientEmail are both set.
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// Load reads configuration from the environment. A missing bot token is the
// only fatal condition; everything else has a default.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	baseURL := getEnv("STREAMVAULT_BASE_URL", "https://streamvault.live")

	return &Config{
		BotToken:          token,
		ChannelID:         getEnv("TELEGRAM_CHANNEL_ID", "@streamvaultt"),
		BaseURL:           baseURL,
		ShowsAPI:          baseURL + "/api/shows",
		MoviesAPI:         baseURL + "/api/movies",
		PostedContentFile: getEnv("POSTED_CONTENT_FILE", "posted_content.json"),
		DataPath:          getEnv("DATA_PATH", "./data"),
		ChannelInviteLink: getEnv("CHANNEL_INVITE_LINK", "https://t.me/streamvaultt"),
		WebsiteURL:        getEnv("WEBSITE_URL", "https://streamvault.live"),
		HealthPort:        getEnv("PORT", "8080"),
		Email:             emailFromEnv(),
	}, nil
}

func emailFromEnv() EmailConfig {
	smtpPort := 587
	if portStr := os.Getenv("EMAIL_SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			smtpPort = p
		} else {
			log.Printf("Invalid SMTP port '%s', using default 587", portStr)
		}
	}

	return EmailConfig{
		SMTPHost:       os.Getenv("EMAIL_SMTP_HOST"),
		SMTPPort:       smtpPort,
		SenderEmail:    os.Getenv("EMAIL_SENDER"),
		SenderPassword: os.Getenv("EMAIL_PASSWORD"),
		RecipientEmail: os.Getenv("EMAIL_RECIPIENT"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
