package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/common"
	"github.com/tigview/tigview/internal/ui/view"
)

var lineStyleNames = map[view.LineType]string{
	view.LineDelimiter:       "delimiter",
	view.LineCommit:          "commit",
	view.LineMerge:           "merge",
	view.LineParent:          "parent",
	view.LineAuthor:          "author",
	view.LineDate:            "date",
	view.LineDiffHeader:      "diff header",
	view.LineDiffIndex:       "diff index",
	view.LineDiffOld:         "diff old",
	view.LineDiffNew:         "diff new",
	view.LineDiffChunk:       "diff chunk",
	view.LineDiffAdd:         "diff add",
	view.LineDiffDel:         "diff del",
	view.LineDiffStat:        "diff stat",
	view.LineMainCommit:      "main commit",
	view.LineMainBoundary:    "main boundary",
	view.LineTreeParent:      "tree parent",
	view.LineTreeDir:         "tree dir",
	view.LineTreeFile:        "tree file",
	view.LineBlame:           "default",
	view.LineStatusHead:      "status head",
	view.LineStatusSection:   "status section",
	view.LineStatusStaged:    "status staged",
	view.LineStatusUnstaged:  "status unstaged",
	view.LineStatusUntracked: "status untracked",
	view.LineStatusNone:      "status none",
	view.LineHelpGroup:       "help group",
	view.LineHelpKey:         "help key",
}

// LineStyle is the style for lines of type t.
func LineStyle(t view.LineType) lipgloss.Style {
	name, ok := lineStyleNames[t]
	if !ok {
		name = "default"
	}
	return common.DefaultPalette.Get(name)
}

func Style(name string) lipgloss.Style {
	return common.DefaultPalette.Get(name)
}

// RefStyle picks the style of a reference label.
func RefStyle(ref *git.Reference) lipgloss.Style {
	switch {
	case ref.Is(git.RefHead):
		return Style("main head")
	case ref.Is(git.RefTag):
		return Style("main tag")
	case ref.Is(git.RefTracked):
		return Style("main tracked")
	case ref.Is(git.RefRemote):
		return Style("main remote")
	default:
		return Style("main ref")
	}
}

// RefLabel brackets a reference name the way the main view shows it.
func RefLabel(ref *git.Reference) string {
	switch {
	case ref.Is(git.RefTag):
		return "<" + ref.Name + ">"
	case ref.Is(git.RefRemote):
		return "{" + ref.Name + "}"
	default:
		return "[" + ref.Name + "]"
	}
}
