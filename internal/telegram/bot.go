// Package telegram runs the agent behind a Telegram webhook. Each chat maps
// to one conversation thread, so the bot keeps no state of its own.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"chef-agent/internal/agent"
	"chef-agent/internal/clipper"
	"chef-agent/internal/config"
	"chef-agent/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the conversation agent, and the recipe clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	agent        *agent.Agent
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, a *agent.Agent, clip *clipper.Clipper, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		agent:        a,
		clipper:      clip,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Text == "/metrics" {
		b.handleMetricsRequest(msg)
		return
	}

	// A URL switches the turn to clipper mode; everything else goes to the
	// conversation agent.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleClipperRequest(msg)
		return
	}

	b.handleAgentRequest(msg)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if b.cfg.AdminTelegramID == 0 || msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Access denied: admin only."))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usage, err := b.metricsStore.Usage(ctx, 7)
	if err != nil {
		log.Printf("Error fetching metrics: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Error fetching metrics."))
		return
	}

	var sb strings.Builder
	sb.WriteString("Model usage, last 7 days:\n")
	if len(usage) == 0 {
		sb.WriteString("no data yet\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("%s: %d calls, %d tokens, avg %dms\n",
			d.Day, d.Calls, d.PromptTokens+d.CompletionTokens, d.AvgLatencyMS))
	}
	b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, sb.String()))
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	sentMsg, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Clipping recipe..."))
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	rec, err := b.clipper.ClipURL(ctx, msg.Text, userID)

	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		finalText = fmt.Sprintf("Could not clip that page: %v", err)
	} else {
		finalText = fmt.Sprintf("Recipe saved: %s (%d ingredients)", rec.Title, len(rec.Ingredients))
	}
	b.api.Send(tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText))
}

func (b *Bot) handleAgentRequest(msg *tgbotapi.Message) {
	ctx := context.Background()

	threadID := fmt.Sprintf("tg-%d", msg.Chat.ID)
	userID := fmt.Sprintf("%d", msg.From.ID)
	language := msg.From.LanguageCode

	resp, err := b.agent.Process(ctx, threadID, msg.Text, language, userID)
	if err != nil {
		log.Printf("Error processing turn for chat %d: %v", msg.Chat.ID, err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Something went wrong, please try again."))
		return
	}

	for _, part := range splitMessage(resp.Message) {
		if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, part)); err != nil {
			log.Printf("Failed to send reply to chat %d: %v", msg.Chat.ID, err)
			return
		}
	}
}

// Telegram rejects messages over 4096 characters.
const maxMessageLength = 4096

func splitMessage(text string) []string {
	if len(text) <= maxMessageLength {
		return []string{text}
	}
	var parts []string
	for len(text) > maxMessageLength {
		cut := strings.LastIndex(text[:maxMessageLength], "\n")
		if cut <= 0 {
			cut = maxMessageLength
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
