package process

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(script string) Options {
	return Options{Argv: []string{"sh", "-c", script}, Mode: ReadPipe}
}

func readAll(t *testing.T, c *Channel) []string {
	t.Helper()
	var records []string
	for {
		rec, err := c.Read()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, string(rec))
	}
}

func TestChannel_ReadSplitsRecords(t *testing.T) {
	c, err := Spawn(shell(`printf 'first\nsecond\n\nlast'`))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "", "last"}, readAll(t, c))
	assert.NoError(t, c.Close())
}

func TestChannel_ReadNulSeparated(t *testing.T) {
	opts := shell(`printf 'M\000a b.txt\000'`)
	opts.NulSeparated = true
	c, err := Spawn(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"M", "a b.txt"}, readAll(t, c))
	assert.NoError(t, c.Close())
}

func TestChannel_ReadyNeverReportsPartialRecord(t *testing.T) {
	c, err := Spawn(shell(`printf 'par'; sleep 0.3; printf 'tial\n'`))
	require.NoError(t, err)
	defer c.Kill()

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	ready := c.Ready()
	elapsed := time.Since(start)

	assert.False(t, ready)
	assert.Less(t, elapsed, 100*time.Millisecond)

	rec, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "partial", string(rec))
}

func TestChannel_ReadyAfterOutput(t *testing.T) {
	c, err := Spawn(shell(`echo one`))
	require.NoError(t, err)

	assert.Eventually(t, c.Ready, time.Second, 5*time.Millisecond)
	rec, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "one", string(rec))
	assert.Eventually(t, c.Ready, time.Second, 5*time.Millisecond)
	_, err = c.Read()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, c.Close())
}

func TestChannel_CloseClassifiesExit(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		code     int
		signaled bool
	}{
		{name: "nonzero", script: `echo oops >&2; exit 3`, code: 3},
		{name: "signal", script: `kill -TERM $$`, code: -1, signaled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Spawn(shell(tt.script))
			require.NoError(t, err)
			readAll(t, c)

			err = c.Close()
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.code, exitErr.Code)
			assert.Equal(t, tt.signaled, exitErr.Signaled())
		})
	}
}

func TestChannel_CloseCarriesStderr(t *testing.T) {
	c, err := Spawn(shell(`echo 'fatal: no such path' >&2; exit 128`))
	require.NoError(t, err)
	readAll(t, c)

	err = c.Close()
	assert.ErrorContains(t, err, "fatal: no such path")
}

func TestChannel_KillStopsLongRunningChild(t *testing.T) {
	c, err := Spawn(shell(`echo started; sleep 30`))
	require.NoError(t, err)

	rec, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "started", string(rec))

	start := time.Now()
	assert.NoError(t, c.Kill())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NoError(t, c.Close(), "close after kill is a no-op")
	assert.False(t, c.Ready())
}

func TestChannel_KillDoesNotWaitForGrandchildren(t *testing.T) {
	for _, mode := range []Mode{ReadPipe, WritePipe, Background} {
		opts := shell(`sleep 5; echo`)
		opts.Mode = mode
		c, err := Spawn(opts)
		require.NoError(t, err)

		start := time.Now()
		assert.NoError(t, c.Kill())
		assert.Less(t, time.Since(start), 500*time.Millisecond, "mode %d", mode)
	}
}

func TestChannel_WritePipeFlushesEverything(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	c, err := Spawn(Options{
		Argv: []string{"sh", "-c", `cat > "$0"`, out},
		Mode: WritePipe,
	})
	require.NoError(t, err)

	payload := make([]byte, 200*1024)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	n, err := c.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	require.NoError(t, c.Close())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestChannel_WriteOnReadChannelFails(t *testing.T) {
	c, err := Spawn(shell(`true`))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("x"))
	var streamErr *StreamError
	assert.ErrorAs(t, err, &streamErr)
}

func TestChannel_AppendWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	require.NoError(t, os.WriteFile(path, []byte("before\n"), 0o644))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	defer f.Close()

	c, err := Spawn(Options{Argv: []string{"sh", "-c", "echo after"}, Mode: Append, Output: f})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before\nafter\n", string(got))
}

func TestChannel_Background(t *testing.T) {
	c, err := Spawn(Options{Argv: []string{"sh", "-c", "exit 0"}, Mode: Background})
	require.NoError(t, err)
	assert.False(t, c.Ready())
	assert.NoError(t, c.Close())
}

func TestSpawn_MissingBinary(t *testing.T) {
	_, err := Spawn(Options{Argv: []string{"tigview-no-such-binary"}, Mode: ReadPipe})
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Contains(t, err.Error(), "tigview-no-such-binary")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	c, err := OpenFile(path, false)
	require.NoError(t, err)
	assert.True(t, c.Ready())
	assert.Equal(t, []string{"a", "b"}, readAll(t, c))
	assert.NoError(t, c.Close())
	assert.Zero(t, c.Pid())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing"), false)
	var spawnErr *SpawnError
	assert.ErrorAs(t, err, &spawnErr)
}

func TestRunImmediate(t *testing.T) {
	out, err := RunImmediate(context.Background(), "", []string{"sh", "-c", "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = RunImmediate(context.Background(), "", []string{"sh", "-c", "echo bad >&2; exit 2"})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "bad")
}
