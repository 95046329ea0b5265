// Package bot is the Telegram transport adapter. It converts Telegram
// updates into engine events, routes them, and renders the resulting
// directives back into Telegram messages and keyboards. All display strings
// live here, not in the engine.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mayra0000/ETSChatbot/internal/content"
	"github.com/mayra0000/ETSChatbot/internal/engine"
	"github.com/mayra0000/ETSChatbot/pkg/logger"
)

type TelegramBot struct {
	api      *tgbotapi.BotAPI
	engine   *engine.Engine
	renderer *Renderer
	logger   *logger.Logger
}

func NewTelegramBot(token string, debug bool, eng *engine.Engine, catalog *content.Catalog, log *logger.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = debug

	log.Infow("Authorized on Telegram", "username", api.Self.UserName)

	return &TelegramBot{
		api:      api,
		engine:   eng,
		renderer: NewRenderer(catalog),
		logger:   log,
	}, nil
}

// Start removes any existing webhook and begins long polling.
func (t *TelegramBot) Start(ctx context.Context) error {
	_, err := t.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := t.api.GetUpdatesChan(updateConfig)

	t.logger.Infow("Started receiving Telegram updates")
	go t.handleUpdates(ctx, updates)
	return nil
}

func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Errorw("Recovered from panic while processing update", "error", r)
				}
			}()
			t.processUpdate(update)
		}(update)
	}
}

func (t *TelegramBot) processUpdate(update tgbotapi.Update) {
	userID, chatID, name, ev, ok := t.toEvent(update)
	if !ok {
		return
	}

	directive := t.engine.Route(userID, ev)

	for _, msg := range t.renderer.Render(chatID, name, directive) {
		if _, err := t.api.Send(msg); err != nil {
			t.logger.Errorw("Failed to send message", "chat_id", chatID, "error", err)
		}
	}
}

// toEvent maps a Telegram update onto the engine's event union.
func (t *TelegramBot) toEvent(update tgbotapi.Update) (userID, chatID int64, name string, ev engine.Event, ok bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		// Acknowledge so the client stops its spinner.
		if _, err := t.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			t.logger.Warnw("Failed to ack callback", "error", err)
		}
		if cb.Message == nil {
			return 0, 0, "", nil, false
		}
		return cb.From.ID, cb.Message.Chat.ID, cb.From.FirstName, engine.Button{ID: cb.Data}, true

	case update.Message != nil:
		msg := update.Message
		userID, chatID, name = msg.From.ID, msg.Chat.ID, msg.From.FirstName
		switch {
		case msg.IsCommand():
			return userID, chatID, name, engine.Command{Name: msg.Command(), Args: msg.CommandArguments()}, true
		case msg.Location != nil:
			return userID, chatID, name, engine.Location{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}, true
		default:
			return userID, chatID, name, engine.Text{Content: msg.Text}, true
		}
	}
	return 0, 0, "", nil, false
}

// Stop gracefully shuts down the bot.
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.api.StopReceivingUpdates()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}
