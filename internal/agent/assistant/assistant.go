package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewair/booking-assistant/internal/agent/graph"
	"github.com/crewair/booking-assistant/internal/agent/graph/nodes"
	"github.com/crewair/booking-assistant/internal/agent/model"
	errx "github.com/crewair/booking-assistant/internal/core/error"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

// ApologyMessage is shown, after the persona prefix, whenever a turn fails.
const ApologyMessage = "I apologize, but I encountered an error. Please try again."

// ErrEmptyMessage is returned by Converse for blank user input.
var ErrEmptyMessage = errors.New("message is empty")

type Options struct {
	AssistantName string
	// Timeout bounds a whole turn including both model calls. Zero disables it.
	Timeout time.Duration
}

// Assistant is the chat boundary: it never lets an error or panic from the
// turn graph reach the caller.
type Assistant struct {
	runner  graph.Runner
	store   model.SessionStore
	prefix  string
	timeout time.Duration
}

func New(runner graph.Runner, store model.SessionStore, opts Options) *Assistant {
	return &Assistant{
		runner:  runner,
		store:   store,
		prefix:  nodes.PersonaPrefix(opts.AssistantName),
		timeout: opts.Timeout,
	}
}

// Apology is the reply text used for failed turns.
func (a *Assistant) Apology() string {
	return a.prefix + " " + ApologyMessage
}

// Respond runs one turn. The returned Text is always displayable.
func (a *Assistant) Respond(ctx context.Context, in model.TurnInput) (reply model.Reply) {
	defer func() {
		if r := recover(); r != nil {
			reply = a.fail(in, fmt.Errorf("panic during turn: %v", r))
		}
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.runner.Invoke(ctx, in)
	if err != nil {
		return a.fail(in, errx.WrapModel(err))
	}
	return model.Reply{Text: text}
}

// Chat answers message given the prior turns, without any session state.
func (a *Assistant) Chat(ctx context.Context, message string, history model.History) string {
	return a.Respond(ctx, model.TurnInput{Message: message, History: history}).Text
}

func (a *Assistant) fail(in model.TurnInput, err error) model.Reply {
	logx.Error().
		Err(err).
		Str("conversation_id", in.ConversationID).
		Int("history_turns", len(in.History)).
		Msg("Error in chat")
	return model.Reply{Text: a.Apology(), Err: err}
}

// NewConversation creates and stores an empty session.
func (a *Assistant) NewConversation(ctx context.Context) (*model.BookingState, error) {
	state := model.NewBookingState()
	if err := a.store.SaveState(ctx, state); err != nil {
		return nil, err
	}
	logx.Info().Str("conversation_id", state.ConversationID).Msg("Conversation started")
	return state, nil
}

// Converse runs a turn against the stored session. The new turn and any
// booking progress are stored only when the turn succeeds; a failed turn
// still returns the apology as its Reply. The error is reserved for session
// store failures and blank input.
func (a *Assistant) Converse(ctx context.Context, conversationID, message string) (model.Reply, *model.BookingState, error) {
	if strings.TrimSpace(message) == "" {
		return model.Reply{}, nil, ErrEmptyMessage
	}

	history, err := a.store.LoadHistory(ctx, conversationID)
	if err != nil {
		return model.Reply{}, nil, err
	}
	stored, err := a.store.LoadState(ctx, conversationID)
	if err != nil {
		return model.Reply{}, nil, err
	}

	// work on a copy so a failed turn leaves the stored state untouched
	working := *stored
	reply := a.Respond(ctx, model.TurnInput{
		ConversationID: conversationID,
		Message:        message,
		History:        history,
		Booking:        &working,
	})
	if reply.Failed() {
		return reply, stored, nil
	}

	if err := a.store.AppendTurn(ctx, conversationID, model.Turn{User: message, Assistant: reply.Text}); err != nil {
		return reply, stored, err
	}
	if working != *stored {
		if err := a.store.SaveState(ctx, &working); err != nil {
			return reply, stored, err
		}
		logx.Info().
			Str("conversation_id", conversationID).
			Str("stage", string(working.Stage)).
			Msg("Booking state updated")
	}
	return reply, &working, nil
}

// History returns the stored turns of a conversation.
func (a *Assistant) History(ctx context.Context, conversationID string) (model.History, error) {
	return a.store.LoadHistory(ctx, conversationID)
}

// State returns the stored booking state of a conversation.
func (a *Assistant) State(ctx context.Context, conversationID string) (*model.BookingState, error) {
	return a.store.LoadState(ctx, conversationID)
}

// Reset discards the conversation's history and booking state.
func (a *Assistant) Reset(ctx context.Context, conversationID string) error {
	if err := a.store.Clear(ctx, conversationID); err != nil {
		return err
	}
	logx.Info().Str("conversation_id", conversationID).Msg("Conversation reset")
	return nil
}
