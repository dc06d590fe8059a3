// Package editor implements the interactive line editor.
//
// The editor reads single bytes from the input in raw mode and maintains
// an in-memory buffer with a cursor. Tab dispatches to a Completer, the
// arrow keys move the cursor or walk the History, and the usual control
// keys (^C, ^D, ^L, backspace) behave as on other shells.
package editor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/josephlewis42/gosh/core/complete"
)

// Control-flow results of ReadLine. Any other error is an I/O failure.
var (
	// ErrInterrupt reports ^C: the caller discards the line and prompts again.
	ErrInterrupt = errors.New("interrupt")
	// ErrEndOfInput reports ^D or a closed input: the caller exits the shell.
	ErrEndOfInput = errors.New("end of input")
)

// Completer yields command-name candidates for a partial word.
type Completer interface {
	Complete(prefix string) []string
}

// History provides read access to previously accepted lines, oldest first.
type History interface {
	Len() int
	At(i int) string
}

// Editor reads edited lines from a raw-mode terminal.
type Editor struct {
	Out       io.Writer
	Raw       RawMode
	Completer Completer
	History   History

	in *bufio.Reader
}

// New returns an editor reading from in and echoing to out.
func New(in io.Reader, out io.Writer, raw RawMode) *Editor {
	return &Editor{
		Out: out,
		Raw: raw,
		in:  bufio.NewReader(in),
	}
}

// line is the state of one ReadLine call.
type line struct {
	prompt string
	width  int // visible prompt width

	buf []byte
	col int

	histIdx int
	saved   []byte

	tabbed bool // previous key was TAB
}

// ReadLine edits one line and returns it without the trailing newline.
// Raw mode is entered on begin and restored on every exit path.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if err := e.Raw.Enter(); err != nil {
		return "", err
	}
	defer e.Raw.Exit()

	st := &line{
		prompt:  prompt,
		width:   visibleWidth(prompt),
		histIdx: e.historyLen(),
	}
	fmt.Fprint(e.Out, prompt)

	for {
		c, err := e.readByte()
		if err != nil {
			return "", err
		}

		if c != '\t' {
			st.tabbed = false
		}

		switch c {
		case '\r', '\n':
			fmt.Fprint(e.Out, "\r\n")
			return string(st.buf), nil

		case '\t':
			e.completeWord(st)

		case 0x03: // ^C
			fmt.Fprint(e.Out, "\r\n")
			return "", ErrInterrupt

		case 0x04: // ^D
			fmt.Fprint(e.Out, "\r\n")
			return "", ErrEndOfInput

		case 0x0C: // ^L
			fmt.Fprint(e.Out, "\x1b[2J\x1b[H")
			e.redraw(st)

		case 0x1B: // ESC
			if err := e.escapeSequence(st); err != nil {
				return "", err
			}

		case 0x7F: // backspace
			if st.col > 0 {
				st.buf = append(st.buf[:st.col-1], st.buf[st.col:]...)
				st.col--
				e.redraw(st)
			}

		default:
			if c < 0x20 {
				continue // unhandled control byte
			}
			st.buf = append(st.buf[:st.col], append([]byte{c}, st.buf[st.col:]...)...)
			st.col++
			e.redraw(st)
		}
	}
}

func (e *Editor) readByte() (byte, error) {
	c, err := e.in.ReadByte()
	if err == io.EOF {
		fmt.Fprint(e.Out, "\r\n")
		return 0, ErrEndOfInput
	}
	return c, err
}

func (e *Editor) historyLen() int {
	if e.History == nil {
		return 0
	}
	return e.History.Len()
}

// escapeSequence handles CSI sequences: arrow keys move the cursor or walk
// the history, anything else is ignored.
func (e *Editor) escapeSequence(st *line) error {
	c, err := e.readByte()
	if err != nil {
		return err
	}
	if c != '[' {
		return nil
	}
	final, err := e.readByte()
	if err != nil {
		return err
	}

	switch final {
	case 'A': // up: previous history entry
		if st.histIdx > 0 {
			if st.histIdx == e.historyLen() {
				st.saved = append([]byte(nil), st.buf...)
			}
			st.histIdx--
			st.buf = []byte(e.History.At(st.histIdx))
			st.col = len(st.buf)
			e.redraw(st)
		}

	case 'B': // down: next history entry or the saved fresh line
		if st.histIdx < e.historyLen() {
			st.histIdx++
			if st.histIdx == e.historyLen() {
				st.buf = st.saved
				if st.buf == nil {
					st.buf = []byte{}
				}
				st.saved = nil
			} else {
				st.buf = []byte(e.History.At(st.histIdx))
			}
			st.col = len(st.buf)
			e.redraw(st)
		}

	case 'C': // right
		if st.col < len(st.buf) {
			st.col++
			e.redraw(st)
		}

	case 'D': // left
		if st.col > 0 {
			st.col--
			e.redraw(st)
		}
	}
	return nil
}

// completeWord implements tab and double-tab completion on the word under
// the cursor.
func (e *Editor) completeWord(st *line) {
	if e.Completer == nil {
		fmt.Fprint(e.Out, "\a")
		return
	}

	start := bytes.LastIndexByte(st.buf[:st.col], ' ') + 1
	word := string(st.buf[start:st.col])

	candidates := e.Completer.Complete(word)
	switch {
	case len(candidates) == 0:
		fmt.Fprint(e.Out, "\a")

	case len(candidates) == 1:
		e.replaceWord(st, start, candidates[0]+" ")

	default:
		prefix := complete.LongestCommonPrefix(candidates)
		switch {
		case len(prefix) > len(word):
			e.replaceWord(st, start, prefix)
			st.tabbed = true
		case st.tabbed:
			fmt.Fprint(e.Out, "\r\n", strings.Join(candidates, "  "), "\r\n")
			e.redraw(st)
		default:
			fmt.Fprint(e.Out, "\a")
			st.tabbed = true
		}
	}
}

func (e *Editor) replaceWord(st *line, start int, text string) {
	tail := append([]byte(nil), st.buf[st.col:]...)
	st.buf = append(append(st.buf[:start], text...), tail...)
	st.col = start + len(text)
	e.redraw(st)
}

// redraw repaints the prompt and buffer and places the terminal cursor at
// the logical column.
func (e *Editor) redraw(st *line) {
	fmt.Fprint(e.Out, "\r\x1b[K", st.prompt, string(st.buf))
	fmt.Fprint(e.Out, "\r")
	if n := st.width + st.col; n > 0 {
		fmt.Fprintf(e.Out, "\x1b[%dC", n)
	}
}

// visibleWidth is the on-screen width of a prompt, not counting ANSI
// escape sequences such as colors.
func visibleWidth(s string) int {
	width := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1B && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7E) {
				i++
			}
			continue
		}
		width++
	}
	return width
}
