package conversations

import (
	"github.com/cloudwego/eino/schema"

	"github.com/crewair/booking-assistant/internal/agent/model"
)

// MessagesManager turns a caller-supplied History into the message sequence
// sent to the chat model.
type MessagesManager struct {
	maxTurns int
}

func NewMessagesManager(config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{maxTurns: config.MaxTurns}
}

// BuildTurnContext returns [system] + one user and one assistant message per
// prior turn + [current user message]. Only plain text from earlier turns is
// replayed, so tool calls resolved in earlier turns are never re-issued.
func (mm *MessagesManager) BuildTurnContext(systemPrompt string, history model.History, query string) []*schema.Message {
	recent := history.Tail(mm.maxTurns)

	messages := make([]*schema.Message, 0, 2+2*len(recent))
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, turn := range recent {
		messages = append(messages,
			schema.UserMessage(turn.User),
			schema.AssistantMessage(turn.Assistant, nil),
		)
	}
	messages = append(messages, schema.UserMessage(query))
	return messages
}
