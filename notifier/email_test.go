package notifier

import (
	"testing"

	"streamvault-bot/config"
	"streamvault-bot/storage"
)

func TestNewEmailNotifier(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       587,
		SenderEmail:    "bot@example.com",
		RecipientEmail: "admin@example.com",
	})
	if err != nil {
		t.Fatalf("Failed to create notifier: %v", err)
	}
	if n == nil {
		t.Fatal("Notifier is nil")
	}
}

func TestNotifySkipsWithoutPosts(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{SMTPHost: "smtp.example.com", RecipientEmail: "admin@example.com"})
	if err != nil {
		t.Fatalf("Failed to create notifier: %v", err)
	}

	if err := n.NotifyPostedContent(nil); err != nil {
		t.Errorf("Empty post list should be a no-op, got %v", err)
	}
}

func TestNotifySkipsWithoutRecipient(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{SMTPHost: "smtp.example.com"})
	if err != nil {
		t.Fatalf("Failed to create notifier: %v", err)
	}

	posts := []storage.PostRecord{{ContentID: "s1", Kind: "shows", Title: "A"}}
	if err := n.NotifyPostedContent(posts); err != nil {
		t.Errorf("Missing recipient should skip quietly, got %v", err)
	}
}
