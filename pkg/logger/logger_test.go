package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/crewair/booking-assistant/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("hidden")
	Info().Str("tool_name", "get_ticket_price").Msg("dispatching tool")

	line := bytes.TrimSpace(buf.Bytes())
	require.NotEmpty(t, line)
	assert.NotContains(t, buf.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "get_ticket_price", entry["tool_name"])
	assert.Equal(t, "dispatching tool", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Development, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
