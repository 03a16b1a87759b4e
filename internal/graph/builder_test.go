package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commit struct {
	id       string
	parents  []string
	boundary bool
}

func layout(b *Builder, commits ...commit) []Row {
	rows := make([]Row, 0, len(commits))
	for _, c := range commits {
		rows = append(rows, b.Add(c.id, c.parents, c.boundary))
	}
	return rows
}

func TestBuilder_LinearChainStaysInFirstColumn(t *testing.T) {
	b := NewBuilder(0)
	var commits []commit
	for i := 10; i > 0; i-- {
		c := commit{id: fmt.Sprint(i), parents: []string{fmt.Sprint(i - 1)}}
		if i == 1 {
			c.parents = nil
		}
		commits = append(commits, c)
	}
	for _, row := range layout(b, commits...) {
		assert.Equal(t, 0, row.Column)
		assert.Equal(t, 1, row.Width())
	}
	assert.Equal(t, 0, b.Width())
}

func TestBuilder_MergeOpensAndClosesOneColumn(t *testing.T) {
	b := NewBuilder(0)

	merge := b.Add("M", []string{"A", "B"}, false)
	assert.Equal(t, 0, merge.Column)
	assert.Equal(t, []Symbol{Merge, BranchOut}, merge.Symbols)
	assert.Equal(t, []string{"A", "B"}, b.Pending())

	a := b.Add("A", []string{"C"}, false)
	assert.Equal(t, 0, a.Column)
	assert.Equal(t, []Symbol{Commit, Vertical}, a.Symbols)
	assert.Equal(t, 2, b.Width())

	bb := b.Add("B", []string{"C"}, false)
	assert.Equal(t, 1, bb.Column)
	assert.Equal(t, 1, b.Width(), "converged lanes are reclaimed")
	assert.Equal(t, []string{"C"}, b.Pending())

	c := b.Add("C", nil, false)
	assert.Equal(t, 0, c.Column)
	assert.Equal(t, []Symbol{Initial}, c.Symbols)
	assert.Equal(t, 0, b.Width())
}

func TestBuilder_ConvergenceOnArrivalCollapsesDuplicates(t *testing.T) {
	b := NewBuilder(0)
	layout(b,
		commit{id: "X", parents: []string{"P"}},
		commit{id: "Y", parents: []string{"Q"}},
	)
	require.Equal(t, []string{"P", "Q"}, b.Pending())

	// Both lanes end up waiting for Z through different histories.
	p := b.Add("P", []string{"Z"}, false)
	assert.Equal(t, 0, p.Column)
	q := b.Add("Q", []string{"Z"}, false)
	assert.Equal(t, 1, q.Column)
	assert.Equal(t, []string{"Z"}, b.Pending())
}

func TestBuilder_OwnLaneJoiningLeftIsMarked(t *testing.T) {
	b := NewBuilder(0)
	layout(b,
		commit{id: "A", parents: []string{"P"}},
		commit{id: "B", parents: []string{"C"}},
		commit{id: "X", parents: []string{"Y"}},
	)
	require.Equal(t, []string{"P", "C", "Y"}, b.Pending())

	c := b.Add("C", []string{"P"}, false)
	assert.Equal(t, 1, c.Column)
	assert.Equal(t, []Symbol{Join, Commit, Vertical}, c.Symbols)
	assert.Equal(t, []string{"P", "", "Y"}, b.Pending())
	assert.Equal(t, "|-* | ", c.Render(&ASCII))

	y := b.Add("Y", []string{"P"}, false)
	assert.Equal(t, []Symbol{Join, Empty, Commit}, y.Symbols)
	assert.Equal(t, []string{"P"}, b.Pending())
}

func TestBuilder_SecondBranchTipGetsNewColumn(t *testing.T) {
	b := NewBuilder(0)
	rows := layout(b,
		commit{id: "feature", parents: []string{"base"}},
		commit{id: "main", parents: []string{"base"}},
		commit{id: "base", parents: nil},
	)
	assert.Equal(t, 0, rows[0].Column)
	assert.Equal(t, 1, rows[1].Column)
	assert.Equal(t, 0, rows[2].Column)
	assert.Equal(t, 0, b.Width())
}

func TestBuilder_BoundaryEndsLane(t *testing.T) {
	b := NewBuilder(0)
	rows := layout(b,
		commit{id: "c3", parents: []string{"c2"}},
		commit{id: "c2", parents: []string{"c1"}},
		commit{id: "c1", parents: []string{"c0"}, boundary: true},
	)
	for _, row := range rows {
		assert.Equal(t, 0, row.Column)
	}
	assert.Equal(t, []Symbol{Boundary}, rows[2].Symbols)
	assert.Equal(t, 0, b.Width())
}

func TestBuilder_HolesAreReused(t *testing.T) {
	b := NewBuilder(0)
	layout(b,
		commit{id: "a", parents: []string{"a1"}},
		commit{id: "b", parents: []string{"b1"}},
		commit{id: "c", parents: []string{"c1"}},
	)
	require.Equal(t, 3, b.Width())

	b.Add("b1", nil, false)
	assert.Equal(t, []string{"a1", "", "c1"}, b.Pending())

	row := b.Add("d", []string{"d1"}, false)
	assert.Equal(t, 1, row.Column)
	assert.Equal(t, []string{"a1", "d1", "c1"}, b.Pending())
}

func TestBuilder_RowsAreNotChangedByLaterCommits(t *testing.T) {
	b := NewBuilder(0)
	first := b.Add("M", []string{"A", "B"}, false)
	snapshot := append([]Symbol(nil), first.Symbols...)
	layout(b,
		commit{id: "A", parents: []string{"C"}},
		commit{id: "B", parents: []string{"C"}},
		commit{id: "C"},
	)
	assert.Equal(t, snapshot, first.Symbols)
}

func TestBuilder_OverflowWhenColumnsExhausted(t *testing.T) {
	b := NewBuilder(2)
	rows := layout(b,
		commit{id: "a", parents: []string{"a1"}},
		commit{id: "b", parents: []string{"b1"}},
		commit{id: "c", parents: []string{"c1"}},
	)
	assert.Equal(t, 0, rows[0].Column)
	assert.Equal(t, 1, rows[1].Column)
	assert.True(t, rows[2].Overflowed())
	assert.Equal(t, []Symbol{Vertical, Vertical, Overflow}, rows[2].Symbols)
	assert.Equal(t, []string{"a1", "b1"}, b.Pending(), "overflowed commits are not tracked")

	// Extra parents that do not fit are dropped without touching other lanes.
	merge := b.Add("a1", []string{"x", "y"}, false)
	assert.Equal(t, 0, merge.Column)
	assert.Equal(t, []string{"x", "b1"}, b.Pending())
}

func TestRow_Render(t *testing.T) {
	row := Row{Column: 0, Symbols: []Symbol{Merge, Vertical, BranchOut}}
	assert.Equal(t, "M | \\ ", row.Render(&ASCII))
	assert.Equal(t, "◎ │ ╮ ", row.Render(&UTF8))

	joined := Row{Column: 1, Symbols: []Symbol{Join, Commit}}
	assert.Equal(t, "├─● ", joined.Render(&UTF8))
}
