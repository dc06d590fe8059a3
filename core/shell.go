// Package core runs the interactive shell session: prompt, line editor,
// parser and evaluator.
package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/josephlewis42/gosh/core/complete"
	"github.com/josephlewis42/gosh/core/config"
	"github.com/josephlewis42/gosh/core/editor"
	"github.com/josephlewis42/gosh/core/interp"
	"github.com/josephlewis42/gosh/core/lang"
	"github.com/josephlewis42/gosh/core/logger"
)

const (
	EnvHome     = "HOME"
	EnvPath     = "PATH"
	EnvUser     = "USER"
	EnvHostname = "HOSTNAME"

	DefaultPrompt = `\u@\h:\w\$ `
)

var (
	colorUserHost = color.New(color.FgGreen, color.Bold)
	colorCwd      = color.New(color.FgBlue, color.Bold)
)

// Shell is one interactive session over the process's standard streams.
type Shell struct {
	Config  *config.Configuration
	Session *interp.Session
	Editor  *editor.Editor

	stdio    interp.Stdio
	colorize bool
	toClose  []io.Closer
}

// NewShell wires a session from the configuration and the process
// environment.
func NewShell(cfg *config.Configuration) (*Shell, error) {
	var log *logger.Log
	var toClose []io.Closer
	if cfg.LogSession {
		fd, err := cfg.OpenSessionLog()
		if err != nil {
			return nil, err
		}
		toClose = append(toClose, fd)
		log = logger.NewJSONLines(fd)
	}

	history := interp.NewHistory(cfg.HistoryLimit)
	if lines, err := cfg.ReadHistory(); err == nil {
		for _, line := range lines {
			history.Append(line)
		}
	}

	session := interp.NewSession(os.Environ(), history, log)

	ed := editor.New(os.Stdin, os.Stdout, editor.NewTTY(os.Stdin))
	ed.History = history

	shell := &Shell{
		Config:   cfg,
		Session:  session,
		Editor:   ed,
		stdio:    interp.StdStdio(),
		colorize: cfg.ColorPrompt && editor.IsTerminal(os.Stdout),
		toClose:  toClose,
	}
	ed.Completer = completerFunc(shell.complete)

	return shell, nil
}

// Run is the top loop: read a line, scan, parse, evaluate, repeat until
// exit or end of input. The return value is the shell's exit code.
func (s *Shell) Run() int {
	log := s.Session.Log
	log.SessionStart()
	defer s.close()

	for !s.Session.ExitRequested {
		line, err := s.Editor.ReadLine(s.prompt())
		switch {
		case errors.Is(err, editor.ErrEndOfInput):
			s.saveHistory()
			log.SessionEnd(0)
			return 0

		case errors.Is(err, editor.ErrInterrupt):
			continue // discard the partial line

		case err != nil:
			fmt.Fprintf(s.stdio.Err, "gosh: %v\n", err)
			return 1
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		s.Session.History.Append(line)
		log.LineAccepted(line)

		s.runLine(line)
	}

	s.saveHistory()
	log.SessionEnd(s.Session.ExitCode)
	return s.Session.ExitCode
}

// RunCommand evaluates a single line non-interactively, as for `gosh -c`.
// The return value is the shell's exit code.
func (s *Shell) RunCommand(line string) int {
	defer s.close()

	log := s.Session.Log
	log.LineAccepted(line)
	s.runLine(line)

	code := s.Session.LastStatus
	if s.Session.ExitRequested {
		code = s.Session.ExitCode
	}
	log.SessionEnd(code)
	return code
}

// runLine scans, parses and evaluates one accepted line, reporting
// diagnostics to stderr.
func (s *Shell) runLine(line string) {
	tokens := lang.Scan(line)
	if len(tokens) == 0 {
		return
	}
	node, err := lang.Parse(tokens)
	if err != nil {
		fmt.Fprintf(s.stdio.Err, "gosh: %v\n", err)
		s.Session.Log.ParseError(line)
		return
	}

	if err := s.Session.Run(node, s.stdio); err != nil {
		fmt.Fprintf(s.stdio.Err, "gosh: %v\n", err)
	}
}

func (s *Shell) close() {
	for _, c := range s.toClose {
		c.Close()
	}
}

func (s *Shell) saveHistory() {
	_ = s.Config.WriteHistory(s.Session.History.Lines())
}

// complete yields command-name candidates for the editor.
func (s *Shell) complete(prefix string) []string {
	cfg := complete.Config{
		Keywords:  interp.BuiltinNames(),
		Path:      s.Session.Env.Path(),
		SearchCwd: s.Config.CompleteCwd,
	}
	return cfg.Complete(afero.NewOsFs(), prefix)
}

// prompt expands the configured template: \u user, \h host, \w working
// directory with a ~ home abbreviation, \$ the prompt character.
func (s *Shell) prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	env := s.Session.Env
	user := env.Getenv(EnvUser)
	host := env.Getenv(EnvHostname)
	if host == "" {
		host, _ = os.Hostname()
	}

	wd, _ := os.Getwd()
	if home := env.Getenv(EnvHome); home != "" && strings.HasPrefix(wd, home) {
		wd = "~" + strings.TrimPrefix(wd, home)
	}

	dollar := "$"
	if os.Geteuid() == 0 {
		dollar = "#"
	}

	if s.colorize {
		user = colorUserHost.Sprint(user)
		host = colorUserHost.Sprint(host)
		wd = colorCwd.Sprint(wd)
	}

	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, wd)
	prompt = strings.ReplaceAll(prompt, `\$`, dollar)
	return prompt
}

type completerFunc func(prefix string) []string

func (f completerFunc) Complete(prefix string) []string {
	return f(prefix)
}
