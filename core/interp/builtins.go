package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds every registered shell builtin by name.
var AllBuiltins = make(map[string]Builtin)

// Builtin is a command implemented inside the shell process.
type Builtin interface {
	Main(s *Session, args []string, stdio Stdio) int
}

// BuiltinFunc adapts a function to the Builtin interface.
type BuiltinFunc func(s *Session, args []string, stdio Stdio) int

func (f BuiltinFunc) Main(s *Session, args []string, stdio Stdio) int {
	return f(s, args, stdio)
}

var _ Builtin = (BuiltinFunc)(nil)

// BuiltinNames returns the registered builtin names, sorted. These double
// as the completion keyword set.
func BuiltinNames() []string {
	names := make([]string, 0, len(AllBuiltins))
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exit flags the session for termination. A numeric argument becomes the
// shell's exit code.
func Exit(s *Session, args []string, stdio Stdio) int {
	s.ExitRequested = true
	s.ExitCode = 0
	if len(args) > 1 {
		if code, err := strconv.Atoi(args[1]); err == nil {
			s.ExitCode = code
		}
	}
	return 0
}

// Echo writes its arguments joined by single spaces.
func Echo(s *Session, args []string, stdio Stdio) int {
	fmt.Fprintln(stdio.Out, strings.Join(args[1:], " "))
	return 0
}

// Type reports how each argument would resolve.
func Type(s *Session, args []string, stdio Stdio) int {
	ret := 0
	for _, name := range args[1:] {
		res := s.Resolve(name)
		switch res.Kind {
		case KindBuiltin:
			fmt.Fprintf(stdio.Out, "%s is a shell builtin\n", name)
		case KindExecutable:
			fmt.Fprintf(stdio.Out, "%s is %s\n", name, res.Path)
		default:
			fmt.Fprintf(stdio.Err, "%s: not found\n", name)
			ret = 1
		}
	}
	return ret
}

// Pwd prints the resolved path of the working directory.
func Pwd(s *Session, args []string, stdio Stdio) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stdio.Err, "pwd: %v\n", err)
		return 1
	}
	if resolved, err := filepath.EvalSymlinks(wd); err == nil {
		wd = resolved
	}
	fmt.Fprintln(stdio.Out, wd)
	return 0
}

// Cd changes the working directory. A leading ~ expands to $HOME. Without
// arguments cd does nothing.
func Cd(s *Session, args []string, stdio Stdio) int {
	switch len(args) {
	case 1:
		return 0
	case 2:
		path := args[1]
		if path == "~" || strings.HasPrefix(path, "~/") {
			home := s.Env.Getenv("HOME")
			if home == "" {
				home = "."
			}
			path = home + path[1:]
		}
		if err := os.Chdir(path); err != nil {
			fmt.Fprintf(stdio.Err, "cd: %s: No such file or directory\n", args[1])
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stdio.Err, "cd: too many arguments\n")
		return 1
	}
}

// Export sets environment variables from NAME=VALUE arguments. Without
// arguments it prints the environment.
func Export(s *Session, args []string, stdio Stdio) int {
	if len(args) == 1 {
		for _, kv := range s.Env.Environ() {
			fmt.Fprintln(stdio.Out, kv)
		}
		return 0
	}

	ret := 0
	for _, arg := range args[1:] {
		name, value, found := strings.Cut(arg, "=")
		if name == "" {
			fmt.Fprintf(stdio.Err, "export: %s: not a valid identifier\n", arg)
			ret = 1
			continue
		}
		if !found {
			// Bare names keep their current value, export is a no-op
			// for a shell without local variables.
			continue
		}
		s.Env.Setenv(name, value)
	}
	return ret
}

// Unset removes environment variables.
func Unset(s *Session, args []string, stdio Stdio) int {
	for _, name := range args[1:] {
		s.Env.Unsetenv(name)
	}
	return 0
}

// HistoryBuiltin prints the numbered line history; -c clears it.
func HistoryBuiltin(s *Session, args []string, stdio Stdio) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	help := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *help {
		if err != nil {
			fmt.Fprintln(stdio.Err, err)
		}
		fmt.Fprintln(stdio.Err, "usage: history [-c]")
		fmt.Fprintln(stdio.Err, "Display or clear the history list.")
		fmt.Fprintln(stdio.Err)
		opts.PrintOptions(stdio.Err)
		return 1
	}

	if *clear {
		s.History.Clear()
		return 0
	}

	for i, line := range s.History.Lines() {
		fmt.Fprintf(stdio.Out, "% 5d  %s\n", i+1, line)
	}
	return 0
}

// Help lists the builtin commands.
func Help(s *Session, args []string, stdio Stdio) int {
	fmt.Fprintln(stdio.Out, "These commands are defined internally. Type `help' to see this list.")
	fmt.Fprintln(stdio.Out)
	fmt.Fprintln(stdio.Out, strings.Join(BuiltinNames(), "\n"))
	return 0
}

func init() {
	AllBuiltins["exit"] = BuiltinFunc(Exit)
	AllBuiltins["echo"] = BuiltinFunc(Echo)
	AllBuiltins["type"] = BuiltinFunc(Type)
	AllBuiltins["pwd"] = BuiltinFunc(Pwd)
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["export"] = BuiltinFunc(Export)
	AllBuiltins["unset"] = BuiltinFunc(Unset)
	AllBuiltins["history"] = BuiltinFunc(HistoryBuiltin)
	AllBuiltins["help"] = BuiltinFunc(Help)
}
