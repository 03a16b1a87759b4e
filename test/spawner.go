package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tigview/tigview/internal/process"
)

// Response is the canned output for every command whose joined argv
// contains Match.
type Response struct {
	Match  string
	Output string
	Err    error
}

// Spawner serves canned command output from files, so views load without
// running git. Writes go to a real `cat` child and are collected in Written.
type Spawner struct {
	t         *testing.T
	dir       string
	Responses []Response
	Calls     [][]string
	files     int
}

func NewSpawner(t *testing.T, responses ...Response) *Spawner {
	return &Spawner{t: t, dir: t.TempDir(), Responses: responses}
}

func (s *Spawner) Dir() string {
	return s.dir
}

func (s *Spawner) Respond(match, output string) {
	s.Responses = append([]Response{{Match: match, Output: output}}, s.Responses...)
}

func (s *Spawner) lookup(argv []string) (Response, bool) {
	joined := strings.Join(argv, " ")
	for _, r := range s.Responses {
		if strings.Contains(joined, r.Match) {
			return r, true
		}
	}
	return Response{}, false
}

func (s *Spawner) Spawn(opts process.Options) (*process.Channel, error) {
	s.Calls = append(s.Calls, opts.Argv)
	if opts.Mode == process.WritePipe {
		opts.Argv = []string{"sh", "-c", "cat >> " + strconv.Quote(s.WrittenPath())}
		return process.Spawn(opts)
	}
	r, _ := s.lookup(opts.Argv)
	if r.Err != nil {
		return nil, &process.SpawnError{Argv: opts.Argv, Err: r.Err}
	}
	return s.OpenFile(s.write(r.Output), opts.NulSeparated)
}

func (s *Spawner) write(output string) string {
	s.files++
	path := filepath.Join(s.dir, "output-"+strconv.Itoa(s.files))
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		s.t.Fatal(err)
	}
	return path
}

func (s *Spawner) OpenFile(path string, nulSeparated bool) (*process.Channel, error) {
	return process.OpenFile(path, nulSeparated)
}

func (s *Spawner) RunImmediate(argv []string) ([]byte, error) {
	s.Calls = append(s.Calls, argv)
	r, _ := s.lookup(argv)
	return []byte(r.Output), r.Err
}

func (s *Spawner) Interactive(argv []string) *exec.Cmd {
	s.Calls = append(s.Calls, argv)
	return exec.Command("true")
}

// WrittenPath is the file collecting everything written to write pipes.
func (s *Spawner) WrittenPath() string {
	return filepath.Join(s.dir, "written")
}

func (s *Spawner) Written() string {
	data, _ := os.ReadFile(s.WrittenPath())
	return string(data)
}

// Called reports whether a command containing match was spawned.
func (s *Spawner) Called(match string) bool {
	for _, argv := range s.Calls {
		if strings.Contains(strings.Join(argv, " "), match) {
			return true
		}
	}
	return false
}
