package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"syscall"
	"time"
)

type Mode int

const (
	// Foreground runs the command attached to the terminal and waits for it.
	Foreground Mode = iota
	// Background starts the command detached from any pipe and reaps it.
	Background
	// ReadPipe connects the command's stdout to the channel.
	ReadPipe
	// WritePipe connects the channel to the command's stdin.
	WritePipe
	// Append sends the command's stdout to an already open file.
	Append
)

// DefaultProbe bounds how long Ready may wait for bytes to arrive.
const DefaultProbe = 500 * time.Microsecond

const (
	readSize    = 32 * 1024
	stderrLimit = 4 * 1024
)

type Options struct {
	Argv []string
	Dir  string
	Env  []string
	Mode Mode

	// NulSeparated splits records on NUL bytes instead of newlines.
	NulSeparated bool
	// Output receives stdout in Append mode.
	Output *os.File
	// Probe overrides DefaultProbe.
	Probe time.Duration
}

// Channel is a record oriented connection to one child process. It is not
// safe for concurrent use and is owned by a single view.
type Channel struct {
	argv     []string
	mode     Mode
	cmd      *exec.Cmd
	file     *os.File
	sep      byte
	probe    time.Duration
	pollable bool
	readable bool

	buf     []byte
	scratch []byte
	eof     bool
	err     error

	stderr *limitedBuffer
	done   chan error
	closed bool
	result error
}

// Command builds the exec.Cmd for opts without starting it. Foreground
// commands run from the UI are handed to the terminal this way.
func Command(opts Options) *exec.Cmd {
	cmd := exec.Command(opts.Argv[0], opts.Argv[1:]...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.WaitDelay = time.Second
	return cmd
}

// Spawn starts the command described by opts.
func Spawn(opts Options) (*Channel, error) {
	if len(opts.Argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}
	c := &Channel{
		argv:   opts.Argv,
		mode:   opts.Mode,
		sep:    separator(opts.NulSeparated),
		probe:  probe(opts.Probe),
		stderr: &limitedBuffer{limit: stderrLimit},
	}
	cmd := Command(opts)
	c.cmd = cmd
	if opts.Mode != Foreground {
		detach(cmd)
	}

	switch opts.Mode {
	case Foreground:
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		log.Printf("running %v in foreground", opts.Argv)
		if err := cmd.Start(); err != nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		c.result = c.classify(cmd.Wait())
		c.closed = true
		return c, nil
	case Background:
		if err := cmd.Start(); err != nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		c.done = make(chan error, 1)
		go func() { c.done <- cmd.Wait() }()
	case ReadPipe:
		r, w, err := os.Pipe()
		if err != nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		cmd.Stdout = w
		cmd.Stderr = c.stderr
		if err := cmd.Start(); err != nil {
			_ = r.Close()
			_ = w.Close()
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		_ = w.Close()
		c.file = r
		c.pollable = true
		c.readable = true
	case WritePipe:
		r, w, err := os.Pipe()
		if err != nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		cmd.Stdin = r
		cmd.Stderr = c.stderr
		if err := cmd.Start(); err != nil {
			_ = r.Close()
			_ = w.Close()
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
		_ = r.Close()
		c.file = w
	case Append:
		if opts.Output == nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: errors.New("no output file")}
		}
		cmd.Stdout = opts.Output
		cmd.Stderr = c.stderr
		if err := cmd.Start(); err != nil {
			return nil, &SpawnError{Argv: opts.Argv, Err: err}
		}
	}
	log.Printf("started %v (pid %d)", opts.Argv, cmd.Process.Pid)
	return c, nil
}

// OpenFile returns a read channel over a plain file. No process is involved.
func OpenFile(path string, nulSeparated bool) (*Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SpawnError{Argv: []string{path}, Err: err}
	}
	return &Channel{
		argv:     []string{path},
		mode:     ReadPipe,
		file:     f,
		sep:      separator(nulSeparated),
		probe:    DefaultProbe,
		readable: true,
		stderr:   &limitedBuffer{limit: stderrLimit},
	}, nil
}

func (c *Channel) Argv() []string {
	return c.argv
}

func (c *Channel) Pid() int {
	if c.cmd == nil || c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// Read returns the next complete record without its separator, blocking
// until one is available. Bytes left over after the final separator are
// returned as the last record once the stream ends. A clean end of stream
// is reported as io.EOF.
func (c *Channel) Read() ([]byte, error) {
	if !c.readable || c.closed {
		return nil, io.EOF
	}
	for {
		if rec, ok := c.next(); ok {
			return rec, nil
		}
		if c.err != nil {
			return nil, c.err
		}
		if c.eof {
			if len(c.buf) > 0 {
				rec := c.buf
				c.buf = nil
				return rec, nil
			}
			return nil, io.EOF
		}
		c.fill(0)
	}
}

// Ready reports whether Read would return without blocking. It waits at
// most the probe duration for new bytes.
func (c *Channel) Ready() bool {
	if !c.readable || c.closed {
		return false
	}
	if c.pending() {
		return true
	}
	c.fill(c.probe)
	return c.pending()
}

// Write sends all of p to the child's stdin.
func (c *Channel) Write(p []byte) (int, error) {
	if c.mode != WritePipe || c.file == nil || c.closed {
		return 0, &StreamError{Op: "write", Err: os.ErrInvalid}
	}
	written := 0
	for written < len(p) {
		n, err := c.file.Write(p[written:])
		written += n
		if err != nil {
			if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
				continue
			}
			return written, &StreamError{Op: "write " + commandName(c.argv), Err: err}
		}
	}
	return written, nil
}

// Close releases the pipe and waits for the child to exit. A nonzero exit
// or a fatal signal is reported as *ExitError.
func (c *Channel) Close() error {
	return c.shutdown(false)
}

// Kill terminates the child, then reaps it. The termination it causes is
// not reported as an error.
func (c *Channel) Kill() error {
	return c.shutdown(true)
}

func (c *Channel) shutdown(force bool) error {
	if c.closed {
		return c.result
	}
	c.closed = true
	if force && c.cmd != nil && c.cmd.Process != nil {
		log.Printf("killing %v (pid %d)", c.argv, c.cmd.Process.Pid)
		if err := killGroup(c.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
			log.Printf("kill failed: %v", err)
		}
	}
	var pipeErr error
	if c.file != nil {
		pipeErr = c.file.Close()
	}
	c.result = c.wait()
	if force {
		var exitErr *ExitError
		if errors.As(c.result, &exitErr) {
			c.result = nil
		}
	}
	if c.result == nil && c.mode == WritePipe && pipeErr != nil && !errors.Is(pipeErr, os.ErrClosed) {
		c.result = &StreamError{Op: "close " + commandName(c.argv), Err: pipeErr}
	}
	return c.result
}

func (c *Channel) wait() error {
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	if c.done != nil {
		return c.classify(<-c.done)
	}
	return c.classify(c.cmd.Wait())
}

func (c *Channel) classify(err error) error {
	if err == nil {
		log.Printf("%v exited successfully", c.argv)
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		out := &ExitError{Argv: c.argv, Code: ee.ExitCode(), Stderr: c.stderr.String()}
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			out.Signal = ws.Signal()
		}
		log.Printf("%v", out)
		return out
	}
	return &StreamError{Op: "wait " + commandName(c.argv), Err: err}
}

func (c *Channel) pending() bool {
	return c.eof || c.err != nil || bytes.IndexByte(c.buf, c.sep) >= 0
}

func (c *Channel) next() ([]byte, bool) {
	i := bytes.IndexByte(c.buf, c.sep)
	if i < 0 {
		return nil, false
	}
	rec := bytes.Clone(c.buf[:i])
	if rec == nil {
		rec = []byte{}
	}
	c.buf = c.buf[i+1:]
	return rec, true
}

// fill performs one read into the buffer. With a zero wait it blocks until
// bytes or end of stream arrive; otherwise it gives up after wait.
func (c *Channel) fill(wait time.Duration) {
	if c.pollable {
		var deadline time.Time
		if wait > 0 {
			deadline = time.Now().Add(wait)
		}
		if err := c.file.SetReadDeadline(deadline); err != nil {
			c.pollable = false
		}
	}
	if c.scratch == nil {
		c.scratch = make([]byte, readSize)
	}
	for {
		n, err := c.file.Read(c.scratch)
		c.buf = append(c.buf, c.scratch[:n]...)
		switch {
		case err == nil:
			return
		case errors.Is(err, io.EOF):
			c.eof = true
			return
		case errors.Is(err, os.ErrDeadlineExceeded):
			return
		case errors.Is(err, syscall.EINTR), errors.Is(err, syscall.EAGAIN):
			if n > 0 {
				return
			}
		default:
			c.err = &StreamError{Op: "read " + commandName(c.argv), Err: err}
			return
		}
	}
}

// RunImmediate runs a short query to completion and returns its output with
// trailing newlines removed.
func RunImmediate(ctx context.Context, dir string, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = dir
	output, err := c.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, &ExitError{Argv: argv, Code: exitError.ExitCode(), Stderr: string(exitError.Stderr)}
		}
		return nil, &SpawnError{Argv: argv, Err: err}
	}
	return bytes.TrimRight(output, "\n"), nil
}

func separator(nul bool) byte {
	if nul {
		return 0
	}
	return '\n'
}

func probe(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultProbe
	}
	return d
}

type limitedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}
