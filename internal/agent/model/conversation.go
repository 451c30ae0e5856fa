package model

import "context"

// Turn is one user message and the assistant reply it produced.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// History is the ordered list of completed turns. Turns are never modified
// once appended.
type History []Turn

// Append returns a new History with t at the end, leaving h untouched.
func (h History) Append(t Turn) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, t)
}

// Tail returns at most the last n turns. n <= 0 returns the whole history.
func (h History) Tail(n int) History {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// SessionStore keeps per-conversation history and booking state between turns.
type SessionStore interface {
	// LoadHistory returns the completed turns of a conversation, oldest first.
	LoadHistory(ctx context.Context, conversationID string) (History, error)

	// AppendTurn records a completed turn.
	AppendTurn(ctx context.Context, conversationID string, turn Turn) error

	// LoadState returns the booking state, or a fresh one when none is stored.
	LoadState(ctx context.Context, conversationID string) (*BookingState, error)

	// SaveState replaces the stored booking state.
	SaveState(ctx context.Context, state *BookingState) error

	// Clear discards everything recorded for the conversation.
	Clear(ctx context.Context, conversationID string) error
}
