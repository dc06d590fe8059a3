// Package interp evaluates parsed command lines: it resolves names to
// builtins or executables, realizes redirections and pipelines, and joins
// every child before returning to the prompt.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/josephlewis42/gosh/core/lang"
	"github.com/josephlewis42/gosh/core/logger"
)

// ErrUnsupportedRedirect reports a redirection of a descriptor other than
// stdin, stdout or stderr.
var ErrUnsupportedRedirect = errors.New("unsupported redirect descriptor")

// Session is the state of one shell process.
type Session struct {
	Env     *Environ
	History *History
	Log     *logger.Log

	// ExitRequested is set by the exit builtin; ExitCode is the shell's
	// exit status when it is.
	ExitRequested bool
	ExitCode      int

	// LastStatus is the status of the most recently completed command.
	LastStatus int
}

// NewSession creates a session with the given starting environment.
func NewSession(environ []string, history *History, log *logger.Log) *Session {
	return &Session{
		Env:     NewEnviron(environ),
		History: history,
		Log:     log,
	}
}

// Run evaluates one parsed line against the I/O triple. Diagnostics for an
// unknown command go to stdio.Err and still count as success; errors
// opening redirect targets or plumbing pipes abandon the line.
func (s *Session) Run(node lang.Node, stdio Stdio) error {
	if p, ok := node.(*lang.Pipeline); ok {
		return s.runPipeline(p, stdio)
	}

	st, err := s.launch(node, stdio, nil)
	if err != nil {
		return err
	}
	s.LastStatus = st.wait()
	return nil
}

// runPipeline connects the stages with pipes, launches each, closes the
// parent's pipe ends as the children take them over, and waits for every
// stage. The pipeline's status is the status of the last stage.
func (s *Session) runPipeline(p *lang.Pipeline, stdio Stdio) error {
	n := len(p.Stages)
	stages := make([]*stage, 0, n)
	var prevRead *os.File

	fail := func(err error) error {
		if prevRead != nil {
			prevRead.Close()
		}
		for _, st := range stages {
			st.wait()
		}
		return err
	}

	for i, node := range p.Stages {
		st := stdio
		var owned []io.Closer
		if prevRead != nil {
			st.In = prevRead
			owned = append(owned, prevRead)
			prevRead = nil
		}
		if i < n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				return fail(fmt.Errorf("pipe: %w", err))
			}
			st.Out = w
			owned = append(owned, w)
			prevRead = r
		}

		handle, err := s.launch(node, st, owned)
		if err != nil {
			return fail(err)
		}
		stages = append(stages, handle)
	}

	last := 0
	for _, st := range stages {
		last = st.wait()
	}
	s.LastStatus = last
	return nil
}

// stage is one launched pipeline element. wait blocks until it completes
// and returns its status; it must be called exactly once.
type stage struct {
	wait func() int
}

// launch starts a single command, applying any redirect wrappers first.
// The descriptors in owned belong to the stage: an external command closes
// them in the parent right after the child inherits them, a builtin when
// it finishes. On error they are closed before returning.
func (s *Session) launch(node lang.Node, stdio Stdio, owned []io.Closer) (*stage, error) {
	closers := owned

	for {
		r, ok := node.(*lang.Redirect)
		if !ok {
			break
		}
		f, err := openRedirect(r)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, f)
		switch r.FD {
		case 0:
			stdio.In = f
		case 1:
			stdio.Out = f
		case 2:
			stdio.Err = f
		}
		node = r.Inner
	}

	cmd := node.(*lang.Command)
	name := cmd.Args[0]

	switch res := s.Resolve(name); res.Kind {
	case KindBuiltin:
		s.Log.Builtin(name)
		builtin := AllBuiltins[name]
		done := make(chan int, 1)
		go func() {
			ret := builtin.Main(s, cmd.Args, stdio)
			closeAll(closers)
			done <- ret
		}()
		return &stage{wait: func() int { return <-done }}, nil

	case KindExecutable:
		s.Log.Exec(res.Path, cmd.Args)
		child := &exec.Cmd{
			Path:   res.Path,
			Args:   cmd.Args,
			Env:    s.Env.Environ(),
			Stdin:  stdio.In,
			Stdout: stdio.Out,
			Stderr: stdio.Err,
		}
		if err := child.Start(); err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		closeAll(closers)
		return &stage{wait: func() int { return exitStatus(child.Wait()) }}, nil

	default:
		fmt.Fprintf(stdio.Err, "%s: command not found\n", name)
		closeAll(closers)
		return &stage{wait: func() int { return 0 }}, nil
	}
}

// openRedirect opens the target of a redirection with the mode implied by
// the redirected descriptor.
func openRedirect(r *lang.Redirect) (*os.File, error) {
	switch r.FD {
	case 0:
		f, err := os.Open(r.Target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Target, err)
		}
		return f, nil
	case 1, 2:
		flags := os.O_WRONLY | os.O_CREATE
		if r.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(r.Target, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Target, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRedirect, r.FD)
	}
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

// exitStatus maps a Wait result to a shell status code.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
