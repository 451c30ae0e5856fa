package nodes

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func callIDs(calls []schema.ToolCall) []string {
	ids := make([]string, 0, len(calls))
	for _, c := range calls {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestAssignToolCallIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"all present", []string{"a", "b"}, []string{"a", "b"}},
		{"all blank", []string{"", " "}, []string{"call_1", "call_2"}},
		{"blank after supplied call_1", []string{"call_1", ""}, []string{"call_1", "call_2"}},
		{"blank before supplied call_1", []string{"", "call_1"}, []string{"call_2", "call_1"}},
		{"repeated supplied id", []string{"x", "x"}, []string{"x", "call_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := make([]schema.ToolCall, len(tt.in))
			for i, id := range tt.in {
				calls[i].ID = id
			}
			seq := 0
			assignToolCallIDs(calls, func() string {
				seq++
				return fmt.Sprintf("call_%d", seq)
			})
			assert.Equal(t, tt.want, callIDs(calls))
		})
	}
}

func TestEnsurePersona(t *testing.T) {
	prefix := PersonaPrefix("")
	assert.Equal(t, "Sonya:", prefix)
	assert.Equal(t, "Sonya: hi", EnsurePersona(prefix, "  hi "))
	assert.Equal(t, "Sonya: hi", EnsurePersona(prefix, "Sonya: hi"))
	assert.Equal(t, "Ada:", PersonaPrefix(" Ada "))
}
