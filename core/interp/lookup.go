package interp

import (
	"os"
	"path/filepath"
	"strings"
)

// CommandKind says how a name resolves.
type CommandKind int

const (
	KindNotFound CommandKind = iota
	KindBuiltin
	KindExecutable
)

// Resolution is the result of resolving a command name.
type Resolution struct {
	Kind CommandKind

	// Path is the full path of a KindExecutable command.
	Path string
}

// Resolve maps a command name to a builtin or an executable on the search
// path. Builtins shadow executables of the same name. A name containing a
// slash bypasses the search path and is tried directly.
func (s *Session) Resolve(name string) Resolution {
	if _, ok := AllBuiltins[name]; ok {
		return Resolution{Kind: KindBuiltin}
	}

	if strings.Contains(name, "/") {
		if isExecutable(name) {
			return Resolution{Kind: KindExecutable, Path: name}
		}
		return Resolution{Kind: KindNotFound}
	}

	for _, dir := range s.Env.Path() {
		full := filepath.Join(dir, name)
		if isExecutable(full) {
			return Resolution{Kind: KindExecutable, Path: full}
		}
	}
	return Resolution{Kind: KindNotFound}
}

// isExecutable reports whether path names a regular file with any of the
// executable mode bits set. Stat failures read as not executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	mode := info.Mode()
	return mode.IsRegular() && mode.Perm()&0o111 != 0
}
