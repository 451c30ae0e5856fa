package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnInput is what the orchestrator graph receives for one user message.
type TurnInput struct {
	ConversationID string        `json:"conversation_id"`
	Message        string        `json:"message"`
	History        History       `json:"history"`
	Booking        *BookingState `json:"-"`
}

// TurnState stores per-invocation state for the Eino Graph.
// It is registered via compose.WithGenLocalState and only touched inside
// state handlers or compose.ProcessState, which eino serializes.
type TurnState struct {
	ConversationID string
	Messages       []*schema.Message // sequence sent to the model so far
	Booking        *BookingState     // may be nil for stateless chats
	ToolCallCount  int
	ToolCallIDSeq  int // local sequence to synthesize tool_call_id when provider omits
	Usage          TurnUsage
}

// Reply is the outcome of one turn. Text is always displayable; Err is set
// when Text is the fallback apology.
type Reply struct {
	Text string
	Err  error
}

// Failed reports whether the turn fell back to the apology.
func (r Reply) Failed() bool {
	return r.Err != nil
}
