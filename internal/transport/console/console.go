package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/crewair/booking-assistant/internal/agent/model"
	logx "github.com/crewair/booking-assistant/pkg/logger"
)

const (
	cmdReset = "/reset"
	cmdQuit  = "/quit"
)

// Converser is the part of the assistant the console needs.
type Converser interface {
	NewConversation(ctx context.Context) (*model.BookingState, error)
	Converse(ctx context.Context, conversationID, message string) (model.Reply, *model.BookingState, error)
	Reset(ctx context.Context, conversationID string) error
}

// Session is a line-oriented chat transport.
type Session struct {
	chat   Converser
	in     io.Reader
	out    io.Writer
	title  string
	notice string
}

func NewSession(chat Converser, in io.Reader, out io.Writer, title, notice string) *Session {
	return &Session{chat: chat, in: in, out: out, title: title, notice: notice}
}

// Run reads one message per line until EOF, /quit or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	conv, err := s.chat.NewConversation(ctx)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	fmt.Fprintf(s.out, "%s\n%s\nType %s to start over, %s to leave.\n", s.title, s.notice, cmdReset, cmdQuit)

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case cmdQuit:
			return nil
		case cmdReset:
			if err := s.chat.Reset(ctx, conv.ConversationID); err != nil {
				return err
			}
			if conv, err = s.chat.NewConversation(ctx); err != nil {
				return fmt.Errorf("start conversation: %w", err)
			}
			fmt.Fprintln(s.out, "Conversation reset.")
			continue
		}

		reply, state, err := s.chat.Converse(ctx, conv.ConversationID, line)
		if err != nil {
			logx.Error().Err(err).Str("conversation_id", conv.ConversationID).Msg("console turn failed")
			return err
		}
		fmt.Fprintln(s.out, reply.Text)
		if state != nil && state.Stage == model.StageConfirmed {
			logx.Debug().
				Str("conversation_id", conv.ConversationID).
				Str("booking_reference", state.Reference).
				Msg("Booking confirmed")
		}
	}
}
