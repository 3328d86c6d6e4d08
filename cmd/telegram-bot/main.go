package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chef-agent/internal/agent"
	"chef-agent/internal/clipper"
	"chef-agent/internal/config"
	"chef-agent/internal/database"
	"chef-agent/internal/i18n"
	"chef-agent/internal/llm"
	"chef-agent/internal/metrics"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
	"chef-agent/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	model, err := newChatModel(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create chat model: %v", err)
	}
	if model == nil {
		// The clipper extracts recipes with the model, so the bot cannot
		// run without one.
		log.Fatal("LLM_PROVIDER must be set to groq or gemini for the bot")
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	checkpoints := agent.NewCheckpointStore(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	translator := i18n.NewTranslator(cfg.DefaultLanguage)

	chefAgent := agent.New(checkpoints, recipeRepo, shoppingRepo, translator, agent.Options{
		Model:       model,
		Metrics:     metricsStore,
		Logger:      logger,
		TurnTimeout: cfg.TurnTimeout,
		LLMTimeout:  cfg.LLMTimeout,
	})

	recipeClipper := clipper.NewClipper(recipeRepo, model)

	bot, err := telegram.NewBot(cfg, chefAgent, recipeClipper, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func newChatModel(ctx context.Context, cfg *config.Config) (llm.ChatModel, error) {
	switch cfg.LLMProvider {
	case "groq":
		return llm.NewGroqClient(cfg.GroqAPIKey), nil
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	default:
		return nil, nil
	}
}
