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
	"chef-agent/internal/api"
	"chef-agent/internal/config"
	"chef-agent/internal/database"
	"chef-agent/internal/i18n"
	"chef-agent/internal/llm"
	"chef-agent/internal/metrics"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	model, err := newChatModel(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create chat model: %v", err)
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

	server := api.NewServer(chefAgent, recipeRepo, shoppingRepo, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Chef agent listening on port %s", cfg.HTTPPort)
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

// newChatModel picks the model backend from the configured provider. A nil
// model is valid: the agent then runs on deterministic extraction alone.
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
