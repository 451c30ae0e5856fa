package nodes

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

const (
	NodeAssembler     = "Assembler"
	NodeAwaitingModel = "AwaitingModel"
	NodeResolveTools  = "ResolveTools"
	NodeFinalModel    = "FinalModel"
	NodeRespond       = "Respond"
)

const (
	DefaultMaxToolCalls  = 10
	DefaultAssistantName = "Sonya"
)

// normalizeMaxToolCalls returns a sane default when the provided value is invalid.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// PersonaPrefix is the label every reply starts with, e.g. "Sonya:".
func PersonaPrefix(assistantName string) string {
	if strings.TrimSpace(assistantName) == "" {
		assistantName = DefaultAssistantName
	}
	return strings.TrimSpace(assistantName) + ":"
}

// EnsurePersona prefixes text with the persona label unless it already starts
// with it.
func EnsurePersona(prefix, text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, prefix) {
		return text
	}
	return prefix + " " + text
}

// assignToolCallIDs gives every call a distinct id. Blank ids and repeats of an
// earlier id are replaced with values from next that no other call uses.
func assignToolCallIDs(calls []schema.ToolCall, next func() string) {
	reserved := make(map[string]bool, len(calls))
	for _, c := range calls {
		if id := strings.TrimSpace(c.ID); id != "" {
			reserved[id] = true
		}
	}

	assigned := make(map[string]bool, len(calls))
	for i := range calls {
		id := strings.TrimSpace(calls[i].ID)
		if id == "" || assigned[id] {
			for id == "" || reserved[id] {
				id = next()
			}
			reserved[id] = true
			calls[i].ID = id
		}
		assigned[id] = true
	}
}
