// Package complete suggests command names for the line editor.
package complete

import (
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Config describes where candidates come from.
type Config struct {
	// Keywords are always considered, typically the builtin names.
	Keywords []string

	// Path holds the directories of the command search path, in order.
	Path []string

	// SearchCwd additionally scans the working directory for executables.
	SearchCwd bool
}

// Complete returns every known command name starting with prefix, sorted
// and deduplicated. Directories that cannot be read are skipped. An empty
// result means no candidates.
func (c *Config) Complete(fsys afero.Fs, prefix string) []string {
	seen := make(map[string]bool)

	for _, kw := range c.Keywords {
		if strings.HasPrefix(kw, prefix) {
			seen[kw] = true
		}
	}

	dirs := c.Path
	if c.SearchCwd {
		dirs = append(append([]string{}, dirs...), ".")
	}
	for _, dir := range dirs {
		infos, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue
		}
		for _, info := range infos {
			mode := info.Mode()
			if !mode.IsRegular() || mode.Perm()&0o111 == 0 {
				continue
			}
			if strings.HasPrefix(info.Name(), prefix) {
				seen[info.Name()] = true
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LongestCommonPrefix returns the longest prefix shared by all candidates.
// The slice must be non-empty.
func LongestCommonPrefix(candidates []string) string {
	prefix := candidates[0]
	for _, s := range candidates[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
