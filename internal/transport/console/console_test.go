package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewair/booking-assistant/internal/agent/assistant"
	"github.com/crewair/booking-assistant/internal/agent/model"
	"github.com/crewair/booking-assistant/internal/agent/repo"
)

type runnerFunc func(ctx context.Context, in model.TurnInput) (string, error)

func (f runnerFunc) Invoke(ctx context.Context, in model.TurnInput) (string, error) {
	return f(ctx, in)
}

func TestSessionRun(t *testing.T) {
	var historyLens []int
	a := assistant.New(runnerFunc(func(ctx context.Context, in model.TurnInput) (string, error) {
		historyLens = append(historyLens, len(in.History))
		return "Sonya: re " + in.Message, nil
	}), repo.NewMemorySessionStore(0), assistant.Options{})

	in := strings.NewReader("hello\n\nprices?\n/reset\nagain\n/quit\nnever\n")
	var out bytes.Buffer
	err := NewSession(a, in, &out, "CrewAIR Booking Assistant - Sonya", "This is a simulation.").Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "CrewAIR Booking Assistant - Sonya")
	assert.Contains(t, text, "Sonya: re hello\n")
	assert.Contains(t, text, "Sonya: re prices?\n")
	assert.Contains(t, text, "Conversation reset.")
	assert.Contains(t, text, "Sonya: re again\n")
	assert.NotContains(t, text, "never")

	// history grows, then starts over after /reset
	assert.Equal(t, []int{0, 1, 0}, historyLens)
}

func TestSessionRunStopsAtEOF(t *testing.T) {
	a := assistant.New(runnerFunc(func(ctx context.Context, in model.TurnInput) (string, error) {
		return "Sonya: ok", nil
	}), repo.NewMemorySessionStore(0), assistant.Options{})

	var out bytes.Buffer
	require.NoError(t, NewSession(a, strings.NewReader("hi"), &out, "t", "n").Run(context.Background()))
	assert.Contains(t, out.String(), "Sonya: ok")
}
