package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Bot wraps the Telegram Bot API client. Updates arrive over the HTTP
// webhook (not polling), so the wrapper only sends.
type Bot struct {
	bot *bot.Bot
}

func New(token string) (*Bot, error) {
	tgBot, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Bot{bot: tgBot}, nil
}

// SendHTML sends an HTML-formatted message. chatID may be an int64 chat id
// or a string (channel usernames, ids from config).
func (b *Bot) SendHTML(ctx context.Context, chatID any, text string) error {
	_, err := b.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}
