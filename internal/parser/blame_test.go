package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigview/tigview/internal/ui/view"
)

var (
	idA = strings.Repeat("a", 40)
	idB = strings.Repeat("b", 40)
	idC = strings.Repeat("c", 40)
)

var blameStream = []string{
	idA + " 1 1 2",
	"author Alice",
	"author-mail <alice@example.com>",
	"author-time 1700000000",
	"author-tz +0100",
	"committer Alice",
	"summary First",
	"previous " + idC + " main.go",
	"filename main.go",
	idB + " 3 3 2",
	"author Bob",
	"author-time 1700003600",
	"author-tz -0500",
	"summary Second",
	"filename main.go",
	idA + " 5 5 2",
	"filename main.go",
}

func feedContent(b *Blame, lines *view.LineStore, n int) {
	for i := 0; i < n; i++ {
		b.Read(lines, []byte("line "+string(rune('1'+i))))
	}
}

func feed(b *Blame, lines *view.LineStore, records []string) {
	for _, r := range records {
		b.Read(lines, []byte(r))
	}
}

func blameOf(lines *view.LineStore, i int) *BlameLine {
	return lines.At(i).Data.(*BlameLine)
}

func TestBlame_ContentThenAttribution(t *testing.T) {
	b := NewBlame()
	var lines view.LineStore
	feedContent(b, &lines, 6)
	require.Equal(t, 6, lines.Len())
	assert.Nil(t, blameOf(&lines, 0).Commit)
	assert.Equal(t, 3, blameOf(&lines, 2).Lineno)
	assert.Equal(t, "line 3", blameOf(&lines, 2).Text)

	b.StartAttribution()
	feed(b, &lines, blameStream)

	first := blameOf(&lines, 0).Commit
	require.NotNil(t, first)
	assert.Equal(t, idA, first.ID)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, "main.go", first.Filename)
	assert.Equal(t, "2023-11-14 23:13 +0100", first.Time.Format("2006-01-02 15:04 -0700"))

	assert.Same(t, first, blameOf(&lines, 1).Commit)
	assert.Same(t, first, blameOf(&lines, 4).Commit)
	assert.Same(t, first, blameOf(&lines, 5).Commit)
	assert.True(t, blameOf(&lines, 0).Header)
	assert.False(t, blameOf(&lines, 1).Header)
	assert.True(t, blameOf(&lines, 4).Header)

	second := blameOf(&lines, 2).Commit
	require.NotNil(t, second)
	assert.Equal(t, "Bob", second.Author)
	assert.Same(t, second, blameOf(&lines, 3).Commit)
	assert.Equal(t, "2023-11-14 18:13 -0500", second.Time.Format("2006-01-02 15:04 -0700"))

	assert.Equal(t, 2, b.Commits())
	assert.Equal(t, 100, b.Progress(lines.Len()))
	assert.Equal(t, 0, b.Ignored)
}

func TestBlame_OutOfRangeHeadersAreIgnored(t *testing.T) {
	b := NewBlame()
	var lines view.LineStore
	feedContent(b, &lines, 4)
	b.StartAttribution()
	feed(b, &lines, []string{idA + " 1 1 4", "author Alice", "filename f"})

	for _, header := range []string{
		idB + " 5 5 1",
		idB + " 0 0 1",
		idB + " 3 3 3",
		idB + " 2 2 0",
		"zzzz 1 1 1",
		idB + " 1 x 1",
	} {
		feed(b, &lines, []string{header, "author Mallory", "filename f"})
	}

	for i := 0; i < lines.Len(); i++ {
		c := blameOf(&lines, i).Commit
		require.NotNil(t, c)
		assert.Equal(t, idA, c.ID, "line %d", i+1)
		assert.Equal(t, "Alice", c.Author)
	}
	assert.Equal(t, 1, b.Commits())
	assert.Positive(t, b.Ignored)
}

func TestBlame_ThreeFieldHeader(t *testing.T) {
	b := NewBlame()
	var lines view.LineStore
	feedContent(b, &lines, 3)
	b.StartAttribution()
	feed(b, &lines, []string{idC + " 2 2", "summary Old style", "filename f"})

	assert.Nil(t, blameOf(&lines, 0).Commit)
	assert.Equal(t, "Old style", blameOf(&lines, 1).Commit.Title)
	assert.Equal(t, "Old style", blameOf(&lines, 2).Commit.Title)
	assert.Equal(t, 66, b.Progress(lines.Len()))
}

func TestBlame_HeaderMarksGroupDirty(t *testing.T) {
	b := NewBlame()
	var lines view.LineStore
	feedContent(b, &lines, 3)
	for i := 0; i < lines.Len(); i++ {
		lines.At(i).Dirty = false
	}
	b.StartAttribution()
	feed(b, &lines, []string{idA + " 2 2 1"})

	assert.False(t, lines.At(0).Dirty)
	assert.True(t, lines.At(1).Dirty)
	assert.False(t, lines.At(2).Dirty)
}

type attribution struct {
	ID, Author, Title, Time string
}

func replay(b *Blame) []attribution {
	var lines view.LineStore
	b.Reset()
	feedContent(b, &lines, 6)
	b.StartAttribution()
	feed(b, &lines, blameStream)
	b.Finish()

	var out []attribution
	for i := 0; i < lines.Len(); i++ {
		c := blameOf(&lines, i).Commit
		out = append(out, attribution{c.ID, c.Author, c.Title, c.Time.String()})
	}
	return out
}

func TestBlame_ReplayIsDeterministic(t *testing.T) {
	b := NewBlame()
	first := replay(b)
	second := replay(b)
	assert.Equal(t, first, second)
	assert.False(t, b.Attributing())
}
