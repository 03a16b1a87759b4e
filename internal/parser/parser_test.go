package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/graph"
	"github.com/tigview/tigview/internal/ui/view"
)

func TestTree_DirectoriesFirst(t *testing.T) {
	var p Tree
	var lines view.LineStore
	p.Reset(&lines, "")
	for _, r := range []string{
		"100644 blob " + idA + "\tzeta.go",
		"040000 tree " + idB + "\tinternal",
		"100644 blob " + idA + "\tREADME.md",
		"040000 tree " + idC + "\tcmd",
		"garbage",
	} {
		p.Read(&lines, []byte(r))
	}

	var names []string
	for i := 0; i < lines.Len(); i++ {
		names = append(names, lines.At(i).Data.(*TreeEntry).Name)
	}
	assert.Equal(t, []string{"cmd", "internal", "README.md", "zeta.go"}, names)
	assert.Equal(t, view.LineTreeDir, lines.At(0).Type)
	assert.Equal(t, view.LineTreeFile, lines.At(3).Type)
	assert.Equal(t, 1, p.Ignored)
}

func TestTree_SubdirectoryHasParentEntry(t *testing.T) {
	var p Tree
	var lines view.LineStore
	p.Reset(&lines, "internal/")
	p.Read(&lines, []byte("100644 blob "+idA+"\tinternal/b.go"))
	p.Read(&lines, []byte("100644 blob "+idB+"\tinternal/a.go"))

	require.Equal(t, 3, lines.Len())
	assert.Equal(t, view.LineTreeParent, lines.At(0).Type)
	assert.Equal(t, "..", lines.At(0).Data.(*TreeEntry).Name)
	assert.Equal(t, "a.go", lines.At(1).Data.(*TreeEntry).Name)
	assert.Equal(t, idB, lines.At(1).Data.(*TreeEntry).ID)
	assert.Equal(t, "b.go", lines.At(2).Data.(*TreeEntry).Name)
}

func rawLog(commits ...string) []string {
	var out []string
	for _, c := range commits {
		out = append(out, c, "tree "+idC, "author A U Thor <author@example.com> 1700000000 +0000",
			"committer A U Thor <author@example.com> 1700000000 +0000", "",
			"    Subject of "+c[len("commit "):len("commit ")+2], "", "    Body text", "")
	}
	return out
}

func TestMainLog_LinearWithBoundary(t *testing.T) {
	head := git.NewRefStore([]*git.Reference{{Name: "main", ID: idA, Flags: git.RefHead}})
	p := NewMainLog(graph.DefaultMaxColumns)
	p.Reset(head)
	var lines view.LineStore
	for _, r := range rawLog(
		"commit "+idA+" "+idB,
		"commit "+idB+" "+idC,
		"commit -"+idC,
	) {
		p.Read(&lines, []byte(r))
	}
	p.Finish()

	require.Equal(t, 3, lines.Len())
	for i := 0; i < 3; i++ {
		cl := lines.At(i).Data.(*CommitLine)
		assert.Equal(t, 0, cl.Graph.Column, "row %d", i)
	}
	first := lines.At(0).Data.(*CommitLine).Commit
	assert.Equal(t, "Subject of aa", first.Title)
	assert.Equal(t, "A U Thor", first.Author)
	require.Len(t, first.Refs, 1)
	assert.True(t, first.Refs[0].Is(git.RefHead))

	last := lines.At(2)
	assert.Equal(t, view.LineMainBoundary, last.Type)
	assert.True(t, last.Data.(*CommitLine).Commit.Boundary)
	assert.Empty(t, last.Data.(*CommitLine).Commit.Parents)
}

func TestMainLog_IgnoresMalformedCommit(t *testing.T) {
	p := NewMainLog(graph.DefaultMaxColumns)
	p.Reset(nil)
	var lines view.LineStore
	for _, r := range []string{"commit nothex", "author X <x> 1 +0000", "    title"} {
		p.Read(&lines, []byte(r))
	}
	assert.Equal(t, 0, lines.Len())
	assert.Equal(t, 1, p.Ignored)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want view.LineType
	}{
		{"diff --git a/x b/x", view.LineDiffHeader},
		{"index 123..456 100644", view.LineDiffIndex},
		{"--- a/x", view.LineDiffOld},
		{"+++ b/x", view.LineDiffNew},
		{"@@ -1,2 +1,3 @@", view.LineDiffChunk},
		{"+added", view.LineDiffAdd},
		{"-removed", view.LineDiffDel},
		{"commit " + idA, view.LineCommit},
		{"Author:     A U Thor <a@example.com>", view.LineAuthor},
		{"AuthorDate: Tue Nov 14 23:13:20 2023 +0100", view.LineDate},
		{" main.go | 4 ++--", view.LineDiffStat},
		{" 1 file changed, 2 insertions(+), 2 deletions(-)", view.LineDiffStat},
		{"    message body", view.LineDefault},
		{"", view.LineDefault},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			assert.Equal(t, test.want, Classify(test.text))
		})
	}
}
