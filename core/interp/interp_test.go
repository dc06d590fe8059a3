package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/gosh/core/lang"
)

func mustParse(t *testing.T, line string) lang.Node {
	t.Helper()
	node, err := lang.Parse(lang.Scan(line))
	require.NoError(t, err)
	return node
}

func TestRunBuiltin(t *testing.T) {
	s := testSession(t)
	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo hello world"), ts.stdio()))
	assert.Equal(t, "hello world\n", ts.out.String())
	assert.Zero(t, s.LastStatus)
}

func TestRunCommandNotFound(t *testing.T) {
	s := testSession(t) // no PATH: nothing but builtins resolve
	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "nosuchprogram arg"), ts.stdio()))
	assert.Equal(t, "nosuchprogram: command not found\n", ts.err.String())
	assert.Zero(t, s.LastStatus)
}

func TestRunRedirectStdout(t *testing.T) {
	s := testSession(t)
	target := filepath.Join(t.TempDir(), "out.txt")

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo a > "+target), ts.stdio()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
	assert.Empty(t, ts.out.String())
}

func TestRunRedirectTruncates(t *testing.T) {
	s := testSession(t)
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old contents\n"), 0o644))

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo new > "+target), ts.stdio()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestRunRedirectAppend(t *testing.T) {
	s := testSession(t)
	target := filepath.Join(t.TempDir(), "log")

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo one >> "+target), ts.stdio()))
	require.NoError(t, s.Run(mustParse(t, "echo one >> "+target), ts.stdio()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "one\none\n", string(data))
}

func TestRunRedirectStderr(t *testing.T) {
	s := testSession(t)
	target := filepath.Join(t.TempDir(), "err.txt")

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "type nosuch 2> "+target), ts.stdio()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "nosuch: not found\n", string(data))
	assert.Empty(t, ts.err.String())
}

func TestRunRedirectChain(t *testing.T) {
	s := testSession(t)
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out")
	errFile := filepath.Join(dir, "err")

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "type echo nosuch > "+outFile+" 2> "+errFile), ts.stdio()))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "echo is a shell builtin\n", string(data))

	data, err = os.ReadFile(errFile)
	require.NoError(t, err)
	assert.Equal(t, "nosuch: not found\n", string(data))
}

func TestRunRedirectUnsupportedFd(t *testing.T) {
	s := testSession(t)
	var ts testStdio
	err := s.Run(mustParse(t, "echo hi 3> somewhere"), ts.stdio())
	assert.ErrorIs(t, err, ErrUnsupportedRedirect)
}

func TestRunRedirectOpenError(t *testing.T) {
	s := testSession(t)
	var ts testStdio
	err := s.Run(mustParse(t, "echo hi > /does/not/exist/file"), ts.stdio())
	assert.Error(t, err)
	// Nothing ran: the line is abandoned.
	assert.Empty(t, ts.out.String())
}

func TestRunRedirectStdin(t *testing.T) {
	s := testSession(t)
	if s.Resolve("cat").Kind == KindNotFound {
		s.Env.Setenv("PATH", "/bin:/usr/bin")
	}
	if s.Resolve("cat").Kind == KindNotFound {
		t.Skip("cat not available")
	}

	source := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(source, []byte("from a file\n"), 0o644))

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "cat 0> "+source), ts.stdio()))
	assert.Equal(t, "from a file\n", ts.out.String())
}

func TestRunExternal(t *testing.T) {
	s := NewSession(os.Environ(), NewHistory(0), nil)
	if s.Resolve("true").Kind == KindNotFound {
		t.Skip("true not available")
	}

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "true"), ts.stdio()))
	assert.Zero(t, s.LastStatus)

	require.NoError(t, s.Run(mustParse(t, "false"), ts.stdio()))
	assert.Equal(t, 1, s.LastStatus)
}

func TestRunPipeline(t *testing.T) {
	s := NewSession(os.Environ(), NewHistory(0), nil)
	if s.Resolve("cat").Kind == KindNotFound {
		t.Skip("cat not available")
	}

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo hello | cat"), ts.stdio()))
	assert.Equal(t, "hello\n", ts.out.String())
	assert.Zero(t, s.LastStatus)
}

func TestRunPipelineThreeStages(t *testing.T) {
	s := NewSession(os.Environ(), NewHistory(0), nil)
	if s.Resolve("cat").Kind == KindNotFound {
		t.Skip("cat not available")
	}

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo three stages | cat | cat"), ts.stdio()))
	assert.Equal(t, "three stages\n", ts.out.String())
}

func TestRunPipelineOfBuiltins(t *testing.T) {
	s := testSession(t)
	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo a | echo b"), ts.stdio()))
	assert.Equal(t, "b\n", ts.out.String())
	assert.Zero(t, s.LastStatus)
}

func TestRunPipelineStatusIsLastStage(t *testing.T) {
	s := NewSession(os.Environ(), NewHistory(0), nil)
	if s.Resolve("false").Kind == KindNotFound {
		t.Skip("false not available")
	}

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo hi | false"), ts.stdio()))
	assert.Equal(t, 1, s.LastStatus)

	require.NoError(t, s.Run(mustParse(t, "false | echo ok"), ts.stdio()))
	assert.Zero(t, s.LastStatus)
}

func TestRunPipelineWithRedirect(t *testing.T) {
	s := NewSession(os.Environ(), NewHistory(0), nil)
	if s.Resolve("cat").Kind == KindNotFound {
		t.Skip("cat not available")
	}
	target := filepath.Join(t.TempDir(), "out")

	var ts testStdio
	require.NoError(t, s.Run(mustParse(t, "echo piped | cat > "+target), ts.stdio()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "piped\n", string(data))
	assert.Empty(t, ts.out.String())
}
