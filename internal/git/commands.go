package git

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

type Command struct {
	Argv         []string
	Scope        Scope
	NulSeparated bool
}

// Names of the entries in the command table.
const (
	CmdMain            = "main"
	CmdDiff            = "diff"
	CmdDiffUncommitted = "diff-uncommitted"
	CmdLog             = "log"
	CmdTree            = "tree"
	CmdBlob            = "blob"
	CmdBlame           = "blame"
	CmdBlameContent    = "blame-content"
	CmdStatusStaged    = "status-staged"
	CmdStatusNoHead    = "status-no-head"
	CmdStatusUnstaged  = "status-unstaged"
	CmdStatusUntracked = "status-untracked"
	CmdStageStaged     = "stage-staged"
	CmdStageUnstaged   = "stage-unstaged"
	CmdStageUntracked  = "stage-untracked"
	CmdUpdateIndexInfo = "update-index-info"
	CmdUpdateIndexAdd  = "update-index-add"
	CmdEdit            = "edit"
)

var defaultCommands = map[string]Command{
	CmdMain: {
		Argv:  []string{"git", "log", "--no-color", "--pretty=raw", "--parents", "--boundary", LogArgs.Token(), RevArgs.Token(), "--"},
		Scope: SubstituteUntilDashDash,
	},
	CmdDiff: {
		Argv: []string{"git", "show", "--pretty=fuller", "--no-color", "--root", "--patch-with-stat", DiffArgs.Token(), CommitID.Token()},
	},
	CmdDiffUncommitted: {
		Argv: []string{"git", "diff-index", "--root", "--patch-with-stat", "-C", "-M", "--cached", DiffArgs.Token(), "HEAD", "--", File.Token()},
	},
	CmdLog: {
		Argv:  []string{"git", "log", "--no-color", "--cc", "--stat", "-n100", LogArgs.Token(), RevArgs.Token(), "--"},
		Scope: SubstituteUntilDashDash,
	},
	CmdTree: {
		Argv:         []string{"git", "ls-tree", "-z", CommitID.Token(), Directory.Token()},
		NulSeparated: true,
	},
	CmdBlob: {
		Argv: []string{"git", "cat-file", "blob", Blob.Token()},
	},
	CmdBlame: {
		Argv: []string{"git", "blame", "--incremental", Ref.Token(), "--", File.Token()},
	},
	CmdBlameContent: {
		Argv: []string{"git", "cat-file", "blob", Ref.Token() + ":" + File.Token()},
	},
	CmdStatusStaged: {
		Argv:         []string{"git", "diff-index", "-z", "--cached", "-M", "HEAD"},
		NulSeparated: true,
	},
	CmdStatusNoHead: {
		Argv:         []string{"git", "ls-files", "-z", "--cached"},
		NulSeparated: true,
	},
	CmdStatusUnstaged: {
		Argv:         []string{"git", "diff-files", "-z"},
		NulSeparated: true,
	},
	CmdStatusUntracked: {
		Argv:         []string{"git", "ls-files", "-z", "--others", "--exclude-standard"},
		NulSeparated: true,
	},
	CmdStageStaged: {
		Argv: []string{"git", "diff-index", "--root", "--patch-with-stat", "-C", "-M", "--cached", DiffArgs.Token(), "HEAD", "--", File.Token()},
	},
	CmdStageUnstaged: {
		Argv: []string{"git", "diff-files", "--root", "--patch-with-stat", "-C", "-M", DiffArgs.Token(), "--", File.Token()},
	},
	CmdStageUntracked: {
		Argv: []string{"git", "diff", "--no-index", "--no-color", "--patch-with-stat", "--", "/dev/null", File.Token()},
	},
	CmdUpdateIndexInfo: {
		Argv: []string{"git", "update-index", "-z", "--index-info"},
	},
	CmdUpdateIndexAdd: {
		Argv: []string{"git", "update-index", "-z", "--add", "--remove", "--stdin"},
	},
	CmdEdit: {
		Argv: []string{"vi", File.Token()},
	},
}

// overridable lists the views whose command may be replaced from the
// environment.
var overridable = []string{CmdMain, CmdDiff, CmdLog, CmdTree, CmdBlob, CmdBlame}

type CommandTable map[string]Command

func DefaultCommandTable() CommandTable {
	t := make(CommandTable, len(defaultCommands))
	for name, cmd := range defaultCommands {
		cmd.Argv = slices.Clone(cmd.Argv)
		t[name] = cmd
	}
	return t
}

// Override replaces the argument template of an existing entry, keeping its
// substitution scope and separator.
func (t CommandTable) Override(name string, argv []string) error {
	cmd, ok := t[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if len(argv) == 0 {
		return fmt.Errorf("empty command for %q", name)
	}
	cmd.Argv = slices.Clone(argv)
	t[name] = cmd
	return nil
}

// EnvName is the environment variable that overrides the command of a view.
func EnvName(name string) string {
	return "TIGVIEW_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_CMD"
}

// ApplyEnv overrides entries from TIGVIEW_<VIEW>_CMD variables.
func (t CommandTable) ApplyEnv(getenv func(string) string) error {
	var errs []error
	for _, name := range overridable {
		value := getenv(EnvName(name))
		if value == "" {
			continue
		}
		argv, err := SplitCommandLine(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvName(name), err))
			continue
		}
		if err := t.Override(name, argv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Format expands the named command and appends extra arguments verbatim.
func (t CommandTable) Format(name string, vars Vars, extra ...string) (Command, error) {
	cmd, ok := t[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", name)
	}
	argv, err := Format(cmd.Argv, vars, cmd.Scope)
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", name, err)
	}
	cmd.Argv = append(argv, extra...)
	return cmd, nil
}

func (t CommandTable) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// SplitCommandLine splits s on whitespace, honouring single and double quotes
// and backslash escapes outside single quotes.
func SplitCommandLine(s string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t' || r == '\n':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
