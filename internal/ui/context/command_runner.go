package context

import (
	"context"
	"os/exec"
	"time"

	"github.com/tigview/tigview/internal/process"
)

// Spawner starts the processes behind views. Tests replace it to serve
// canned output.
type Spawner interface {
	Spawn(opts process.Options) (*process.Channel, error)
	OpenFile(path string, nulSeparated bool) (*process.Channel, error)
	RunImmediate(argv []string) ([]byte, error)
	Interactive(argv []string) *exec.Cmd
}

type ProcessSpawner struct {
	Location string
	Probe    time.Duration
}

func NewProcessSpawner(location string, probe time.Duration) *ProcessSpawner {
	return &ProcessSpawner{Location: location, Probe: probe}
}

func (p *ProcessSpawner) Spawn(opts process.Options) (*process.Channel, error) {
	if opts.Dir == "" {
		opts.Dir = p.Location
	}
	if opts.Probe == 0 {
		opts.Probe = p.Probe
	}
	return process.Spawn(opts)
}

func (p *ProcessSpawner) OpenFile(path string, nulSeparated bool) (*process.Channel, error) {
	return process.OpenFile(path, nulSeparated)
}

func (p *ProcessSpawner) RunImmediate(argv []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return process.RunImmediate(ctx, p.Location, argv)
}

// Interactive prepares a command that takes over the terminal.
func (p *ProcessSpawner) Interactive(argv []string) *exec.Cmd {
	return process.Command(process.Options{Argv: argv, Dir: p.Location, Mode: process.Foreground})
}
