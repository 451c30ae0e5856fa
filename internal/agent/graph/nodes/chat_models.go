package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/crewair/booking-assistant/internal/agent/model"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Chat    *model.ChatModelConfig
}

// ChatModels holds the two views of the backend used per turn: one offered
// the tool registry, one without tools for the follow-up call.
type ChatModels struct {
	WithTools einomodel.ToolCallingChatModel
	Plain     einomodel.ToolCallingChatModel
	ModelName string
}

// NewGeminiChatModel creates the Gemini-backed chat model.
func NewGeminiChatModel(ctx context.Context, config ChatModelConfig) (einomodel.ToolCallingChatModel, error) {
	if config.Chat == nil {
		return nil, fmt.Errorf("chat model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Chat.Model,
		Temperature: &config.Chat.Temperature,
		MaxTokens:   &config.Chat.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}
	return chatModel, nil
}

// NewChatModels binds the tool definitions to a copy of base. base itself stays
// tool-free.
func NewChatModels(base einomodel.ToolCallingChatModel, modelName string, tools []*schema.ToolInfo) (*ChatModels, error) {
	if base == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	withTools, err := base.WithTools(tools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tool_count", len(tools)).Msg("Successfully bound tools to chat model")
	return &ChatModels{
		WithTools: withTools,
		Plain:     base,
		ModelName: modelName,
	}, nil
}
