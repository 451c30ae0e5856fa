package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/crewair/booking-assistant/internal/agent/assistant"
	"github.com/crewair/booking-assistant/internal/agent/graph"
	"github.com/crewair/booking-assistant/internal/agent/graph/nodes"
	"github.com/crewair/booking-assistant/internal/agent/graph/tools"
	"github.com/crewair/booking-assistant/internal/agent/model"
	"github.com/crewair/booking-assistant/internal/agent/repo"
	"github.com/crewair/booking-assistant/internal/core"
	"github.com/crewair/booking-assistant/internal/transport/console"
	"github.com/crewair/booking-assistant/internal/transport/httpapi"
	logx "github.com/crewair/booking-assistant/pkg/logger"
	pkgredis "github.com/crewair/booking-assistant/pkg/redis"
)

const (
	transportConsole = "console"
	transportHTTP    = "http"
)

// AppConfig defines all configurable parameters of the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Transport   string `envconfig:"TRANSPORT" default:"console"`

	// Infrastructure
	Redis pkgredis.Config
	HTTP  httpapi.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Chat         model.ChatModelConfig
	Prompt       model.AssistantPromptConfig
	Conversation model.ConversationConfig
}

func main() {
	logx.Init()

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("Could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := newSessionStore(ctx, cfg)
	defer closeStore()

	chatModel, err := nodes.NewGeminiChatModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Chat:    &cfg.Chat,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat model")
	}

	catalog := tools.DefaultCatalog()
	runner, err := graph.BuildTurnGraph(ctx, graph.Config{
		ChatModel:    chatModel,
		ModelName:    cfg.Chat.Model,
		Prompt:       cfg.Prompt,
		Conversation: cfg.Conversation,
		Catalog:      catalog,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build turn graph")
	}

	bot := assistant.New(runner, store, assistant.Options{
		AssistantName: cfg.Prompt.AssistantName,
		Timeout:       cfg.Chat.Timeout,
	})

	logx.Info().
		Str("environment", cfg.Environment).
		Str("transport", cfg.Transport).
		Str("model", cfg.Chat.Model).
		Strs("destinations", catalog.Cities()).
		Msg("Booking assistant ready")

	switch cfg.Transport {
	case transportHTTP:
		err = httpapi.Serve(ctx, cfg.HTTP, bot)
	case transportConsole:
		title := cfg.Prompt.AirlineName + " Booking Assistant - " + cfg.Prompt.AssistantName
		err = console.NewSession(bot, os.Stdin, os.Stdout, title, httpapi.SimulationNotice).Run(ctx)
	default:
		logx.Fatal().Str("transport", cfg.Transport).Msg("Unknown TRANSPORT; use console or http")
	}
	if err != nil && ctx.Err() == nil {
		logx.Fatal().Err(err).Msg("Transport stopped with error")
	}
	logx.Info().Msg("Booking assistant stopped")
}

// newSessionStore uses Redis when REDIS_URL is set and process memory otherwise.
func newSessionStore(ctx context.Context, cfg AppConfig) (model.SessionStore, func()) {
	if !cfg.Redis.Enabled() {
		logx.Info().Msg("Using in-memory session store")
		return repo.NewMemorySessionStore(cfg.Conversation.MaxTurns), func() {}
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	logx.Info().Dur("ttl", cfg.Conversation.TTL).Msg("Connected to Redis session store")
	return repo.NewRedisSessionStore(rdb, cfg.Conversation.TTL, cfg.Conversation.MaxTurns), func() { _ = rdb.Close() }
}
