package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"placebrief/internal/report"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Notifier delivers rendered reports to a single Telegram chat.
type Notifier struct {
	api    *tgbot.Bot
	chatID int64
	log    *slog.Logger
}

func New(
	token string,
	chatID int64,
	log *slog.Logger,
	opts ...tgbot.Option,
) (*Notifier, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token is empty")
	}
	if chatID == 0 {
		return nil, errors.New("chat ID is empty")
	}

	opts = append([]tgbot.Option{tgbot.WithSkipGetMe()}, opts...)

	api, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Notifier{
		api:    api,
		chatID: chatID,
		log:    log,
	}, nil
}

// SendReport sends every message of the report, continuing past failures.
func (n *Notifier) SendReport(ctx context.Context, r *report.Report) error {
	messages := report.TelegramMessages(r)

	var errs []error
	for i, message := range messages {
		if _, err := n.api.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:    n.chatID,
			Text:      message,
			ParseMode: models.ParseModeMarkdown,
		}); err != nil {
			errs = append(errs, fmt.Errorf("send message (part = %d/%d): %w", i+1, len(messages), err))
			continue
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "Report is sent",
		"chatID", n.chatID,
		"query", r.Query,
		"messageCount", len(messages))

	return nil
}
