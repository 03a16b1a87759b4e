package process

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ErrAborted marks a load that was stopped on request. Callers treat it the
// same as a clean end of stream.
var ErrAborted = errors.New("aborted")

// SpawnError is returned when the child process could not be started.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", commandName(e.Argv), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// StreamError is a non-transient I/O failure on the channel's pipe.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ExitError describes a child that exited with a nonzero status or was
// terminated by a signal.
type ExitError struct {
	Argv   []string
	Code   int
	Signal syscall.Signal
	Stderr string
}

func (e *ExitError) Signaled() bool {
	return e.Signal != 0
}

func (e *ExitError) Error() string {
	var b strings.Builder
	b.WriteString(commandName(e.Argv))
	if e.Signaled() {
		fmt.Fprintf(&b, " killed by signal %s", e.Signal)
	} else {
		fmt.Fprintf(&b, " exited with status %d", e.Code)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func commandName(argv []string) string {
	switch len(argv) {
	case 0:
		return "command"
	case 1:
		return argv[0]
	default:
		return argv[0] + " " + argv[1]
	}
}
