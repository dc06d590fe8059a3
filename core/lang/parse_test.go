package lang

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGolden(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	cases := map[string]string{
		"simple":            "echo hello world",
		"quoted":            `echo 'a | b'`,
		"redirect":          "echo hi > out.txt",
		"redirect-append":   "echo one >> log",
		"redirect-chain":    "cmd > x 2> y",
		"redirect-mixed":    "echo > out hi",
		"pipeline":          "ls | wc -l",
		"pipeline-long":     "a | b | c",
		"pipeline-redirect": "a > x | b",
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			node, err := Parse(Scan(line))
			require.NoError(t, err)
			g.Assert(t, name, []byte(DebugString(node)))
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		line     string
		expected error
	}{
		{"", ErrExpectedCommand},
		{"|", ErrExpectedCommand},
		{"| a", ErrExpectedCommand},
		{"a |", ErrExpectedCommand},
		{"a | | b", ErrExpectedCommand},
		{"> out", ErrExpectedCommand},
		{"a >", ErrExpectedTarget},
		{"a > | b", ErrExpectedTarget},
		{"a >>", ErrExpectedTarget},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			_, err := Parse(Scan(tc.line))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

// TestParseNeverPanics feeds the parser assorted junk; any outcome other
// than a panic is acceptable.
func TestParseNeverPanics(t *testing.T) {
	lines := []string{
		"", " ", "|", "||", "|||", ">", ">>", "2>", "a||b", "a>>>b",
		`"`, `'`, `\`, "a | > b", "> > >", "a 2> | b", "echo | | | echo",
	}
	for _, line := range lines {
		node, err := Parse(Scan(line))
		if err == nil {
			assert.NotNil(t, node, "line %q", line)
		}
	}
}

func TestPipelineOnlyWithPipe(t *testing.T) {
	node, err := Parse(Scan("echo hi"))
	require.NoError(t, err)
	_, isPipeline := node.(*Pipeline)
	assert.False(t, isPipeline)

	node, err = Parse(Scan("echo hi | cat"))
	require.NoError(t, err)
	pipeline, isPipeline := node.(*Pipeline)
	require.True(t, isPipeline)
	assert.GreaterOrEqual(t, len(pipeline.Stages), 2)
}
