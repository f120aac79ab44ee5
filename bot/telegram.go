// Package bot wires the Telegram transport to the command dispatcher.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram Bot API for one channel target. It implements
// scheduler.ChannelSender for the auto-post pipeline and drives the command
// update loop for interactive users.
type Bot struct {
	api       *tgbotapi.BotAPI
	channelID string
}

// New authenticates against the Telegram Bot API. channelID is either a
// @username or a numeric chat id.
func New(token, channelID string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{api: api, channelID: channelID}, nil
}

// SendText posts a Markdown message to the channel.
func (b *Bot) SendText(text string) error {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(b.channelID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(b.channelID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendPhoto posts an image with a Markdown caption to the channel.
func (b *Bot) SendPhoto(photoURL, caption string) error {
	var msg tgbotapi.PhotoConfig
	if id, err := strconv.ParseInt(b.channelID, 10, 64); err == nil {
		msg = tgbotapi.NewPhoto(id, tgbotapi.FileURL(photoURL))
	} else {
		msg = tgbotapi.NewPhotoToChannel(b.channelID, tgbotapi.FileURL(photoURL))
	}
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// Listen long-polls for updates and dispatches command messages until the
// context is cancelled. Non-command traffic is ignored.
func (b *Bot) Listen(ctx context.Context, dispatcher *Dispatcher) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Println("Listening for commands...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			dispatcher.Handle(ctx, update.Message.Command(), update.Message.CommandArguments(), &messageReplier{
				api:     b.api,
				chatID:  update.Message.Chat.ID,
				replyTo: update.Message.MessageID,
			})
		}
	}
}

// Replier answers the user whose command is being handled.
type Replier interface {
	Text(text string) error
	TextNoPreview(text string) error
	Photo(photoURL, caption string) error
}

type messageReplier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	replyTo int
}

func (r *messageReplier) Text(text string) error {
	return r.send(text, false)
}

func (r *messageReplier) TextNoPreview(text string) error {
	return r.send(text, true)
}

func (r *messageReplier) send(text string, noPreview bool) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyToMessageID = r.replyTo
	msg.DisableWebPagePreview = noPreview

	if _, err := r.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (r *messageReplier) Photo(photoURL, caption string) error {
	msg := tgbotapi.NewPhoto(r.chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyToMessageID = r.replyTo

	if _, err := r.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send photo reply: %w", err)
	}
	return nil
}
