package graph

import (
	"context"
	"errors"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type scriptStep struct {
	msg *schema.Message
	err error
}

type recordedCall struct {
	messages []*schema.Message
	tools    []*schema.ToolInfo
}

// script is shared by every view of a scriptedModel so calls made through the
// tool-bound copy and the plain model land in one ordered log.
type script struct {
	mu    sync.Mutex
	steps []scriptStep
	calls []recordedCall
}

type scriptedModel struct {
	s     *script
	tools []*schema.ToolInfo
}

func newScriptedModel(steps ...scriptStep) *scriptedModel {
	return &scriptedModel{s: &script{steps: steps}}
}

func reply(content string) scriptStep {
	return scriptStep{msg: schema.AssistantMessage(content, nil)}
}

func toolCalls(calls ...schema.ToolCall) scriptStep {
	return scriptStep{msg: schema.AssistantMessage("", calls)}
}

func failure(err error) scriptStep {
	return scriptStep{err: err}
}

func call(id, name, args string) schema.ToolCall {
	return schema.ToolCall{ID: id, Type: "function", Function: schema.FunctionCall{Name: name, Arguments: args}}
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	msgs := make([]*schema.Message, len(input))
	copy(msgs, input)
	m.s.calls = append(m.s.calls, recordedCall{messages: msgs, tools: m.tools})

	if len(m.s.steps) == 0 {
		return nil, errors.New("unexpected model call")
	}
	step := m.s.steps[0]
	m.s.steps = m.s.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	out := *step.msg
	return &out, nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return &scriptedModel{s: m.s, tools: tools}, nil
}

func (m *scriptedModel) Calls() []recordedCall {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]recordedCall, len(m.s.calls))
	copy(out, m.s.calls)
	return out
}

func (m *scriptedModel) Remaining() int {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.steps)
}

var _ einomodel.ToolCallingChatModel = (*scriptedModel)(nil)
