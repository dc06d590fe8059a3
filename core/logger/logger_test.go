package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLines(&buf)

	log.SessionStart()
	log.LineAccepted("echo hi")
	log.Exec("/bin/ls", []string{"ls", "-l"})
	log.Builtin("cd")
	log.ParseError("echo >")
	log.SessionEnd(2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)

	var entries []Entry
	for _, line := range lines {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		assert.NotZero(t, e.TimestampMicros)
		entries = append(entries, e)
	}

	assert.Equal(t, "session_start", entries[0].Event)
	assert.Equal(t, "echo hi", entries[1].Line)
	assert.Equal(t, "/bin/ls", entries[2].Path)
	assert.Equal(t, []string{"ls", "-l"}, entries[2].Args)
	assert.Equal(t, "builtin", entries[3].Event)
	assert.Equal(t, "parse_error", entries[4].Event)
	assert.Equal(t, 2, entries[5].Status)
}

func TestNilLogDiscards(t *testing.T) {
	var log *Log
	log.SessionStart()
	log.LineAccepted("anything")
	log.Exec("/bin/true", nil)
	log.SessionEnd(0)
}
