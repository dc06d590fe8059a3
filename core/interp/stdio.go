package interp

import (
	"io"
	"os"
)

// Stdio is the I/O triple a node executes against. Builtins use the
// interfaces directly; external commands hand the endpoints to the child
// process, which inherits them as descriptors 0, 1 and 2.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStdio is the triple inherited from the shell process itself.
func StdStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}
