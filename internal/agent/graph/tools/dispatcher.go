package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/crewair/booking-assistant/internal/agent/model"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// Result is the outcome of one dispatched tool call. Message is nil when the
// tool is unknown; City is the destination the call referred to, if any.
type Result struct {
	Tool       string
	Message    *schema.Message
	City       string
	Price      string
	Name       string
	Email      string
	Validation *model.ValidationResult
	Booking    *model.BookingRecord
}

// Apply folds the observed outcome into the conversation's booking state.
func (r Result) Apply(state *model.BookingState) {
	if state == nil || r.Message == nil {
		return
	}
	switch r.Tool {
	case ToolGetTicketPrice:
		if r.Price != PriceNotAvailable {
			state.Priced(r.City, r.Price)
		}
	case ToolValidateInfo:
		if r.Validation != nil && r.Validation.AllValid {
			state.Validated(r.Name, r.Email)
		}
	case ToolBookFlight:
		if r.Booking != nil && r.Booking.Price != PriceNotAvailable {
			state.Confirm(*r.Booking)
		}
	}
}

type observationKey struct{}

// observe lets a running tool record what it saw on the caller's Result.
func observe(ctx context.Context, fn func(*Result)) {
	if r, ok := ctx.Value(observationKey{}).(*Result); ok && r != nil {
		fn(r)
	}
}

// Dispatcher resolves model-issued tool calls against the registry.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs a single tool call. Unknown tools yield a zero Result and no
// error; malformed arguments yield an error.
func (d *Dispatcher) Dispatch(ctx context.Context, call schema.ToolCall) (Result, error) {
	name := call.Function.Name
	logx.Debug().
		Str("tool_name", name).
		Str("tool_call_id", call.ID).
		Msg("Dispatching tool call")

	t, ok := d.registry.Lookup(name)
	if !ok {
		logx.Warn().Str("tool_name", name).Str("tool_call_id", call.ID).Msg("Unknown tool call; ignoring")
		return Result{}, nil
	}

	args := call.Function.Arguments
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}

	res := Result{Tool: name}
	out, err := runWithCallbacks(context.WithValue(ctx, observationKey{}, &res), name, t, args)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", name, err)
	}

	res.Message = &schema.Message{
		Role:       schema.Tool,
		Content:    out,
		ToolCallID: call.ID,
		ToolName:   name,
	}
	return res, nil
}

// runWithCallbacks reports the run to the tool callbacks carried by ctx.
func runWithCallbacks(ctx context.Context, name string, t tool.InvokableTool, args string) (string, error) {
	typ, _ := components.GetType(t)
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      typ,
		Component: components.ComponentOfTool,
	})
	ctx = callbacks.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: args})

	out, err := t.InvokableRun(ctx, args)
	if err != nil {
		callbacks.OnError(ctx, err)
		return "", err
	}

	callbacks.OnEnd(ctx, &tool.CallbackOutput{Response: out})
	return out, nil
}
