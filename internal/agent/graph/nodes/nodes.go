package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/crewair/booking-assistant/internal/agent/graph/conversations"
	"github.com/crewair/booking-assistant/internal/agent/graph/prompts"
	"github.com/crewair/booking-assistant/internal/agent/graph/tools"
	"github.com/crewair/booking-assistant/internal/agent/model"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// NewAssemblerPreHandler resets per-turn state and captures the turn's booking context.
func NewAssemblerPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.ConversationID = in.ConversationID
		s.Booking = in.Booking
		s.Messages = nil
		s.ToolCallCount = 0
		s.ToolCallIDSeq = 0
		s.Usage = model.TurnUsage{}
		return in, nil
	}
}

// NewAssemblerNode builds the message sequence for the first model call.
func NewAssemblerNode(
	mm *conversations.MessagesManager,
	promptCfg *model.AssistantPromptConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) ([]*schema.Message, error) {
		systemPrompt, err := prompts.RenderSystem(ctx, *promptCfg)
		if err != nil {
			return nil, fmt.Errorf("render system prompt: %w", err)
		}
		return mm.BuildTurnContext(systemPrompt, in.History, in.Message), nil
	})
}

// NewAwaitingModelPreHandler remembers the sequence offered to the model so
// tool results can be appended to it.
func NewAwaitingModelPreHandler() func(context.Context, []*schema.Message, *model.TurnState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.TurnState) ([]*schema.Message, error) {
		state.Messages = append(state.Messages[:0], in...)
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Int("message_count", len(in)).
			Msg("AI thinking...")
		return in, nil
	}
}

// NewChatModelPostHandler computes usage cost and fills missing tool call ids.
func NewChatModelPostHandler(node, modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out == nil {
			state.Usage.Record(nil, model.Pricing{})
			return nil, fmt.Errorf("%s returned no message", node)
		}

		var usage *schema.TokenUsage
		if out.ResponseMeta != nil {
			usage = out.ResponseMeta.Usage
		}
		callCost := state.Usage.Record(usage, model.DefaultRates.For(modelName))
		if usage != nil {
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost_total_usd"] = state.Usage.CostUSD
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", node).
				Str("model", modelName).
				Int("prompt_tokens", usage.PromptTokens).
				Int("completion_tokens", usage.CompletionTokens).
				Int("total_tokens", usage.TotalTokens).
				Float64("call_cost_usd", callCost).
				Float64("turn_cost_usd", state.Usage.CostUSD).
				Msg("LLM usage")
		}

		// Gemini may omit tool call ids; the tool result must echo one back.
		assignToolCallIDs(out.ToolCalls, func() string {
			state.ToolCallIDSeq++
			return fmt.Sprintf("call_%d", state.ToolCallIDSeq)
		})

		if len(out.ToolCalls) > 0 {
			logx.Debug().Str("node", node).Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
		} else {
			logx.Debug().Str("node", node).Msg("AI response ready")
		}
		return out, nil
	}
}

// NewToolDecisionCondition routes to tool resolution when the model asked for tools.
func NewToolDecisionCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		if input != nil && len(input.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ResolveTools")
			return NodeResolveTools, nil
		}
		logx.Debug().Msg("No tool calls - responding")
		return NodeRespond, nil
	}
}

// NewToolResolverNode appends the assistant's tool-call message and one result
// per call, in the order issued. Calls beyond maxToolCalls are dropped.
func NewToolResolverNode(dispatcher *tools.Dispatcher, maxToolCalls int) *compose.Lambda {
	maxToolCalls = normalizeMaxToolCalls(maxToolCalls)
	return compose.InvokableLambda(func(ctx context.Context, assistant *schema.Message) ([]*schema.Message, error) {
		var (
			messages       []*schema.Message
			conversationID string
		)
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			messages = make([]*schema.Message, 0, len(state.Messages)+1+len(assistant.ToolCalls))
			messages = append(messages, state.Messages...)
			conversationID = state.ConversationID
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		messages = append(messages, assistant)

		calls := assistant.ToolCalls
		if len(calls) > maxToolCalls {
			logx.Warn().
				Str("conversation_id", conversationID).
				Int("tool_count", len(calls)).
				Int("max_tool_calls", maxToolCalls).
				Msg("Tool call limit exceeded - dropping extra calls")
			calls = calls[:maxToolCalls]
		}

		results := make([]tools.Result, 0, len(calls))
		for _, call := range calls {
			res, err := dispatcher.Dispatch(ctx, call)
			if err != nil {
				return nil, err
			}
			if res.Message == nil {
				continue
			}
			messages = append(messages, res.Message)
			results = append(results, res)
		}

		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			state.Messages = messages
			state.ToolCallCount += len(calls)
			for _, res := range results {
				res.Apply(state.Booking)
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to update state: %w", err)
		}
		return messages, nil
	})
}

// NewRespondNode turns the final model message into the displayed reply.
func NewRespondNode(assistantName string) *compose.Lambda {
	prefix := PersonaPrefix(assistantName)
	return compose.InvokableLambda(func(ctx context.Context, out *schema.Message) (string, error) {
		if out == nil {
			return "", fmt.Errorf("no model response to render")
		}
		_ = compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			logx.Info().
				Str("conversation_id", state.ConversationID).
				Int("model_calls", state.Usage.ModelCalls).
				Int("tool_calls", state.ToolCallCount).
				Int("prompt_tokens", state.Usage.PromptTokens).
				Int("completion_tokens", state.Usage.CompletionTokens).
				Float64("cost_usd", state.Usage.CostUSD).
				Msg("Turn complete")
			return nil
		})
		return EnsurePersona(prefix, out.Content), nil
	})
}
