package worktree

import (
	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/process"
	appContext "github.com/tigview/tigview/internal/ui/context"
)

// Update moves entries to the other side of the index by feeding their
// records to update-index. Entries needing different invocations are
// written in separate runs.
func Update(ctx *appContext.MainContext, entries []*git.StatusEntry) error {
	var order []string
	batches := map[string][]*git.StatusEntry{}
	for _, entry := range entries {
		name := entry.UpdateCommand()
		if _, ok := batches[name]; !ok {
			order = append(order, name)
		}
		batches[name] = append(batches[name], entry)
	}
	for _, name := range order {
		if err := update(ctx, name, batches[name]); err != nil {
			return err
		}
	}
	return nil
}

func update(ctx *appContext.MainContext, name string, entries []*git.StatusEntry) error {
	cmd, err := ctx.Command(name)
	if err != nil {
		return err
	}
	ch, err := ctx.Spawn(process.Options{Argv: cmd.Argv, Mode: process.WritePipe})
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := ch.Write(entry.UpdateRecord()); err != nil {
			ch.Kill()
			return err
		}
	}
	return ch.Close()
}
