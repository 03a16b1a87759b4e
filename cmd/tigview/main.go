package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui"
	"github.com/tigview/tigview/internal/ui/common"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/view"
)

var Version = "dev"

// launch describes the first view and the selection it opens with.
type launch struct {
	initial view.Type
	revArgs []string
	commit  string
	ref     string
	file    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "tigview: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tigview [flags] [--] [rev-args...]",
		Short: "Browse a git repository in the terminal",
		Long: `tigview is a text-mode interface for git. Without a subcommand it opens
the main view with the history of the given revisions. Options meant for
git log go after "--".`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(launch{initial: view.Main, revArgs: args})
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Open the status view",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return run(launch{initial: view.Status})
			},
		},
		&cobra.Command{
			Use:   "blame [rev] <path>",
			Short: "Annotate each line of a file with the commit that last changed it",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(_ *cobra.Command, args []string) error {
				l := launch{initial: view.Blame, file: args[len(args)-1]}
				if len(args) == 2 {
					l.ref = args[0]
				}
				return run(l)
			},
		},
		&cobra.Command{
			Use:   "show [rev]",
			Short: "Show a commit with its diff",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return run(launch{initial: view.Diff, commit: firstArg(args)})
			},
		},
		&cobra.Command{
			Use:   "log [--] [rev-args...]",
			Short: "Open the log view",
			Args:  cobra.ArbitraryArgs,
			RunE: func(_ *cobra.Command, args []string) error {
				return run(launch{initial: view.Log, revArgs: args})
			},
		},
		&cobra.Command{
			Use:   "tree [rev]",
			Short: "Browse the file tree of a revision",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return run(launch{initial: view.Tree, commit: firstArg(args)})
			},
		},
	)
	return root
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func run(l launch) error {
	if err := config.Load(config.Path()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	common.DefaultPalette.Update(config.Current.Colors)
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	repo, err := git.Open(".")
	if err != nil {
		return err
	}
	commands, err := commandTable()
	if err != nil {
		return err
	}
	keyMap, err := config.Current.KeyMap()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := appContext.NewAppContext(repo, commands, keyMap)
	ctx.Version = Version
	ctx.RevArgs = l.revArgs
	ctx.Selection.Commit = l.commit
	ctx.Selection.Ref = l.ref
	ctx.Selection.File = l.file

	p := tea.NewProgram(ui.New(ctx, l.initial), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// commandTable applies the [commands] section, $EDITOR and the
// TIGVIEW_<VIEW>_CMD variables, in that order, to the default commands.
func commandTable() (git.CommandTable, error) {
	commands := git.DefaultCommandTable()
	for name, argv := range config.Current.Commands {
		if err := commands.Override(name, argv); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		argv, err := git.SplitCommandLine(editor)
		if err != nil {
			return nil, fmt.Errorf("EDITOR: %w", err)
		}
		if err := commands.Override(git.CmdEdit, append(argv, git.File.Token())); err != nil {
			return nil, err
		}
	}
	if err := commands.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return commands, nil
}

func setupLogging() (func(), error) {
	path := os.Getenv("TIGVIEW_DEBUG")
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if path == "1" {
		path = "tigview.log"
	}
	f, err := tea.LogToFile(path, "tigview")
	if err != nil {
		return nil, fmt.Errorf("debug log: %w", err)
	}
	return func() { _ = f.Close() }, nil
}
