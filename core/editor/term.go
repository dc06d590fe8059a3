package editor

import (
	"os"

	"golang.org/x/term"
)

// RawMode switches the input terminal in and out of raw mode. Enter and
// Exit bracket every ReadLine call; Exit must be safe to call even when
// Enter failed or never ran.
type RawMode interface {
	Enter() error
	Exit() error
}

// TTY is the RawMode for a real terminal. On a non-terminal input (a pipe
// or file) both calls are no-ops so the editor degrades to plain reads.
type TTY struct {
	fd    int
	state *term.State
}

func NewTTY(f *os.File) *TTY {
	return &TTY{fd: int(f.Fd())}
}

func (t *TTY) Enter() error {
	if !term.IsTerminal(t.fd) {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

func (t *TTY) Exit() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(t.fd, state)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
