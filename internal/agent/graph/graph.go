package graph

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	"github.com/crewair/booking-assistant/internal/agent/graph/conversations"
	"github.com/crewair/booking-assistant/internal/agent/graph/nodes"
	"github.com/crewair/booking-assistant/internal/agent/graph/observers"
	"github.com/crewair/booking-assistant/internal/agent/graph/tools"
	"github.com/crewair/booking-assistant/internal/agent/model"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// Runner executes one conversation turn and returns the reply text.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (string, error)
}

// Config holds everything needed to compose the turn graph end-to-end.
// ChatModel is the tool-free backend; tools are bound to a copy of it.
// Catalog is only used when Registry is nil.
type Config struct {
	ChatModel    einomodel.ToolCallingChatModel
	ModelName    string
	Prompt       model.AssistantPromptConfig
	Conversation model.ConversationConfig
	Catalog      *tools.Catalog
	Registry     *tools.Registry
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Dispatcher      *tools.Dispatcher
	PromptConfig    *model.AssistantPromptConfig
	ToolMaxCalls    int
}

// GraphBuilder handles the construction of the turn graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, string]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, string]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (string, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildTurnGraph wires chat models, tools and the messages manager into a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Registry == nil {
		registry, err := tools.NewRegistry(ctx, cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("build tool registry: %w", err)
		}
		cfg.Registry = registry
	}
	if err := cfg.Registry.Verify(); err != nil {
		return nil, fmt.Errorf("invalid tool registry: %w", err)
	}

	cms, err := nodes.NewChatModels(cfg.ChatModel, cfg.ModelName, cfg.Registry.Infos())
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: conversations.NewMessagesManager(cfg.Conversation),
		Dispatcher:      tools.NewDispatcher(cfg.Registry),
		PromptConfig:    &cfg.Prompt,
		ToolMaxCalls:    cfg.Conversation.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Strs("tools", cfg.Registry.Names()).Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled turn graph:
//
//	Assembler -> AwaitingModel -> (ResolveTools -> FinalModel)? -> Respond
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, string], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.WithTools == nil || config.ChatModels.Plain == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("tool dispatcher is nil")
	}
	if config.PromptConfig == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, string](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	modelName := b.config.ChatModels.ModelName
	steps := []struct {
		name string
		add  func() error
	}{
		{nodes.NodeAssembler, func() error {
			return b.graph.AddLambdaNode(nodes.NodeAssembler,
				nodes.NewAssemblerNode(b.config.MessagesManager, b.config.PromptConfig),
				compose.WithStatePreHandler(nodes.NewAssemblerPreHandler()),
			)
		}},
		{nodes.NodeAwaitingModel, func() error {
			return b.graph.AddChatModelNode(nodes.NodeAwaitingModel,
				b.config.ChatModels.WithTools,
				compose.WithStatePreHandler(nodes.NewAwaitingModelPreHandler()),
				compose.WithStatePostHandler(nodes.NewChatModelPostHandler(nodes.NodeAwaitingModel, modelName)),
			)
		}},
		{nodes.NodeResolveTools, func() error {
			return b.graph.AddLambdaNode(nodes.NodeResolveTools,
				nodes.NewToolResolverNode(b.config.Dispatcher, b.config.ToolMaxCalls),
			)
		}},
		{nodes.NodeFinalModel, func() error {
			return b.graph.AddChatModelNode(nodes.NodeFinalModel,
				b.config.ChatModels.Plain,
				compose.WithStatePostHandler(nodes.NewChatModelPostHandler(nodes.NodeFinalModel, modelName)),
			)
		}},
		{nodes.NodeRespond, func() error {
			return b.graph.AddLambdaNode(nodes.NodeRespond,
				nodes.NewRespondNode(b.config.PromptConfig.AssistantName),
			)
		}},
	}

	for _, step := range steps {
		if err := step.add(); err != nil {
			logx.Error().Err(err).Str("node", step.name).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", step.name, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeAssembler},
		{nodes.NodeAssembler, nodes.NodeAwaitingModel},
		{nodes.NodeResolveTools, nodes.NodeFinalModel},
		{nodes.NodeFinalModel, nodes.NodeRespond},
		{nodes.NodeRespond, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates the tool decision after the first model call
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolDecisionCondition(),
		map[string]bool{
			nodes.NodeResolveTools: true,
			nodes.NodeRespond:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeAwaitingModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

// maxRunSteps bounds a turn; the longest path visits five nodes.
const maxRunSteps = 10

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, string], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("FlightBookingTurn"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
