package model

import "time"

// ================ Config ================
type ChatModelConfig struct {
	Model       string        `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int           `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32       `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
	Timeout     time.Duration `envconfig:"CHAT_TIMEOUT" default:"60s"`
}

type ConversationConfig struct {
	TTL      time.Duration `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int           `envconfig:"CONVERSATION_MAX_TURNS" default:"50"`
	Tools    struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

type AssistantPromptConfig struct {
	AssistantName string `envconfig:"ASSISTANT_NAME" default:"Sonya"`
	AirlineName   string `envconfig:"AIRLINE_NAME" default:"CrewAIR"`
}
