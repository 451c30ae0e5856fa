package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/crewair/booking-assistant/internal/agent/graph/tools"
	"github.com/crewair/booking-assistant/internal/agent/model"
)

//go:embed template/system_prompt.txt
var systemPromptTemplate string

// RenderSystem renders the assistant's fixed instructions through the Eino
// prompt component so prompt callbacks fire.
func RenderSystem(ctx context.Context, config model.AssistantPromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPromptTemplate),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"AssistantName": config.AssistantName,
		"AirlineName":   config.AirlineName,
		"PriceTool":     tools.ToolGetTicketPrice,
		"ValidateTool":  tools.ToolValidateInfo,
		"BookTool":      tools.ToolBookFlight,
	})
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return strings.TrimSpace(msgs[0].Content), nil
}
