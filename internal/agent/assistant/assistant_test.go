package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewair/booking-assistant/internal/agent/model"
	"github.com/crewair/booking-assistant/internal/agent/repo"
)

const apology = "Sonya: I apologize, but I encountered an error. Please try again."

type runnerFunc func(ctx context.Context, in model.TurnInput) (string, error)

func (f runnerFunc) Invoke(ctx context.Context, in model.TurnInput) (string, error) {
	return f(ctx, in)
}

func newTestAssistant(r runnerFunc) (*Assistant, *repo.MemorySessionStore) {
	store := repo.NewMemorySessionStore(0)
	return New(r, store, Options{AssistantName: "Sonya"}), store
}

func TestChatReturnsReply(t *testing.T) {
	var got model.TurnInput
	a, _ := newTestAssistant(func(ctx context.Context, in model.TurnInput) (string, error) {
		got = in
		return "Sonya: Paris is $899.", nil
	})

	history := model.History{{User: "hi", Assistant: "Sonya: hello"}}
	assert.Equal(t, "Sonya: Paris is $899.", a.Chat(context.Background(), "Paris?", history))
	assert.Equal(t, "Paris?", got.Message)
	assert.Equal(t, history, got.History)
	assert.Nil(t, got.Booking)
}

func TestChatFailuresBecomeApology(t *testing.T) {
	tests := []struct {
		name   string
		runner runnerFunc
	}{
		{"backend error", func(ctx context.Context, in model.TurnInput) (string, error) {
			return "", errors.New("connection reset")
		}},
		{"panic", func(ctx context.Context, in model.TurnInput) (string, error) {
			panic("boom")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAssistant(tt.runner)
			require.NotPanics(t, func() {
				assert.Equal(t, apology, a.Chat(context.Background(), "hi", nil))
			})
			reply := a.Respond(context.Background(), model.TurnInput{Message: "hi"})
			assert.True(t, reply.Failed())
			assert.Equal(t, apology, reply.Text)
		})
	}
}

func TestRespondAppliesTimeout(t *testing.T) {
	store := repo.NewMemorySessionStore(0)
	a := New(runnerFunc(func(ctx context.Context, in model.TurnInput) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), store, Options{Timeout: 10 * time.Millisecond})

	reply := a.Respond(context.Background(), model.TurnInput{Message: "hi"})
	require.True(t, reply.Failed())
	assert.ErrorIs(t, reply.Err, context.DeadlineExceeded)
	assert.Equal(t, apology, reply.Text)
}

func TestConverseStoresSuccessfulTurns(t *testing.T) {
	a, store := newTestAssistant(func(ctx context.Context, in model.TurnInput) (string, error) {
		if in.Booking != nil {
			in.Booking.Priced("Rome", "$929")
		}
		return "Sonya: Rome is $929.", nil
	})
	ctx := context.Background()

	conv, err := a.NewConversation(ctx)
	require.NoError(t, err)

	reply, state, err := a.Converse(ctx, conv.ConversationID, "Rome?")
	require.NoError(t, err)
	assert.Equal(t, "Sonya: Rome is $929.", reply.Text)
	assert.Equal(t, model.StagePriced, state.Stage)

	history, err := store.LoadHistory(ctx, conv.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, model.History{{User: "Rome?", Assistant: "Sonya: Rome is $929."}}, history)

	stored, err := a.State(ctx, conv.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "$929", stored.Price)
}

func TestConverseFailedTurnLeavesSessionUntouched(t *testing.T) {
	a, store := newTestAssistant(func(ctx context.Context, in model.TurnInput) (string, error) {
		in.Booking.Priced("Tokyo", "$1400")
		return "", errors.New("second model call failed")
	})
	ctx := context.Background()

	reply, state, err := a.Converse(ctx, "conv-1", "Tokyo?")
	require.NoError(t, err)
	assert.Equal(t, apology, reply.Text)
	assert.Equal(t, model.StageInitial, state.Stage)

	history, err := store.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	stored, err := store.LoadState(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Price)
}

func TestConverseRejectsBlankMessage(t *testing.T) {
	a, _ := newTestAssistant(func(ctx context.Context, in model.TurnInput) (string, error) {
		t.Fatal("runner must not be called")
		return "", nil
	})
	_, _, err := a.Converse(context.Background(), "conv-1", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestConversePassesGrowingHistory(t *testing.T) {
	var seen []int
	a, _ := newTestAssistant(func(ctx context.Context, in model.TurnInput) (string, error) {
		seen = append(seen, len(in.History))
		return "Sonya: ok", nil
	})
	ctx := context.Background()
	for _, msg := range []string{"one", "two", "three"} {
		_, _, err := a.Converse(ctx, "conv-1", msg)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{0, 1, 2}, seen)

	require.NoError(t, a.Reset(ctx, "conv-1"))
	h, err := a.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, h)
}
