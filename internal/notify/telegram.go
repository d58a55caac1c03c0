package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/telegram"
)

type TelegramConfig struct {
	ChatID string `json:"chat_id"`
	Token  string `json:"token"`
}

// Telegram sends DOWN and SLOW alerts to a chat via the Bot API. UP reports
// are dropped silently.
type Telegram struct {
	client *telegram.Client
	chatID string
}

func NewTelegram(rawConfig json.RawMessage) (domain.Notifier, error) {
	var cfg TelegramConfig
	if err := json.Unmarshal(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("invalid telegram config: %w", err)
	}

	// Credentials normally arrive through the environment.
	if cfg.Token == "" {
		cfg.Token = os.Getenv("TG_BOT_TOKEN")
	}
	if cfg.ChatID == "" {
		cfg.ChatID = os.Getenv("TG_CHAT_ID")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set (config token or TG_BOT_TOKEN)")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram chat id is not set (config chat_id or TG_CHAT_ID)")
	}

	return NewTelegramWithClient(telegram.NewClient(cfg.Token), cfg.ChatID), nil
}

func NewTelegramWithClient(client *telegram.Client, chatID string) domain.Notifier {
	return &Telegram{
		client: client,
		chatID: chatID,
	}
}

func (t *Telegram) Type() string { return config.NotifierTypeTelegram }

func (t *Telegram) Notify(ctx context.Context, report domain.Report) error {
	text, ok := AlertText(report)
	if !ok {
		return nil
	}
	return t.client.SendMessage(ctx, t.chatID, text)
}
