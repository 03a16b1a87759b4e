// Package graph lays out commit ancestry one commit at a time.
//
// Commits must arrive children before parents. Each open column waits for
// one pending commit id; the arriving commit takes the column waiting for it
// and hands the column to its first parent. Extra parents get a column of
// their own next to it. Columns are never shifted, so a lane keeps its index
// for as long as it stays open and rows rendered earlier stay valid.
package graph

// DefaultMaxColumns bounds the number of lanes tracked at once. A commit that
// needs a new lane while all lanes are taken is drawn in an overflow lane to
// the right and its ancestry is not followed.
const DefaultMaxColumns = 24

type column struct {
	id string
}

func (c column) open() bool {
	return c.id != ""
}

type Symbol uint8

const (
	Empty Symbol = iota
	// Vertical is a lane passing through the row.
	Vertical
	// Commit is the row's own commit.
	Commit
	// Merge is a commit with more than one parent.
	Merge
	// Boundary is a commit whose ancestry was cut off by the query.
	Boundary
	// Initial is a root commit.
	Initial
	// BranchOut opens a lane for an extra parent.
	BranchOut
	// Collapse ends a lane that joined another one.
	Collapse
	// Join is a lane to the left that the commit's own lane merges into.
	Join
	// Overflow marks a commit that did not fit in the tracked lanes.
	Overflow
)

// Row is the immutable layout of one commit.
type Row struct {
	Column  int
	Symbols []Symbol
}

func (r Row) Width() int {
	return len(r.Symbols)
}

func (r Row) Overflowed() bool {
	return r.Column < 0
}

type Builder struct {
	columns []column
	max     int
}

func NewBuilder(maxColumns int) *Builder {
	if maxColumns <= 0 {
		maxColumns = DefaultMaxColumns
	}
	return &Builder{max: maxColumns}
}

func (b *Builder) Reset() {
	b.columns = b.columns[:0]
}

// Width is the number of lanes currently open, including holes.
func (b *Builder) Width() int {
	return len(b.columns)
}

// Pending returns the ids the open lanes are waiting for; holes are "".
func (b *Builder) Pending() []string {
	ids := make([]string, len(b.columns))
	for i, c := range b.columns {
		ids[i] = c.id
	}
	return ids
}

// Add places one commit and returns its row.
func (b *Builder) Add(id string, parents []string, boundary bool) Row {
	pos := b.find(id)
	if pos < 0 {
		pos = b.allocate(0)
	}
	if pos < 0 {
		return b.overflowRow()
	}

	symbols := make([]Symbol, len(b.columns))
	for i, c := range b.columns {
		switch {
		case i == pos:
		case c.id == id:
			symbols[i] = Collapse
			b.columns[i] = column{}
		case c.open():
			symbols[i] = Vertical
		}
	}
	symbols[pos] = commitSymbol(parents, boundary)

	if boundary || len(parents) == 0 {
		b.columns[pos] = column{}
	} else {
		b.columns[pos] = column{id: parents[0]}
		for _, parent := range parents[1:] {
			if b.find(parent) >= 0 {
				continue
			}
			at := b.allocate(pos + 1)
			if at < 0 {
				break
			}
			b.columns[at] = column{id: parent}
			for len(symbols) <= at {
				symbols = append(symbols, Empty)
			}
			symbols[at] = BranchOut
		}
		b.converge(pos, symbols)
	}
	b.trim()
	return Row{Column: pos, Symbols: trimSymbols(symbols)}
}

// converge closes the lane at pos, or the later duplicate, when two lanes now
// wait for the same commit.
func (b *Builder) converge(pos int, symbols []Symbol) {
	want := b.columns[pos].id
	for i, c := range b.columns {
		if i == pos || c.id != want {
			continue
		}
		if i > pos {
			b.columns[i] = column{}
			if symbols[i] == Vertical {
				symbols[i] = Collapse
			}
		} else {
			b.columns[pos] = column{}
			if symbols[i] == Vertical {
				symbols[i] = Join
			}
		}
		return
	}
}

func (b *Builder) overflowRow() Row {
	symbols := make([]Symbol, len(b.columns)+1)
	for i, c := range b.columns {
		if c.open() {
			symbols[i] = Vertical
		}
	}
	symbols[len(b.columns)] = Overflow
	return Row{Column: -1, Symbols: symbols}
}

func (b *Builder) find(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range b.columns {
		if c.id == id {
			return i
		}
	}
	return -1
}

// allocate returns the first free lane at or after from, growing the lane
// set when there is none. It returns -1 when the lane limit is reached.
func (b *Builder) allocate(from int) int {
	for i := from; i < len(b.columns); i++ {
		if !b.columns[i].open() {
			return i
		}
	}
	if len(b.columns) >= b.max {
		return -1
	}
	b.columns = append(b.columns, column{})
	return len(b.columns) - 1
}

func (b *Builder) trim() {
	n := len(b.columns)
	for n > 0 && !b.columns[n-1].open() {
		n--
	}
	b.columns = b.columns[:n]
}

func trimSymbols(symbols []Symbol) []Symbol {
	n := len(symbols)
	for n > 0 && symbols[n-1] == Empty {
		n--
	}
	return symbols[:n:n]
}

func commitSymbol(parents []string, boundary bool) Symbol {
	switch {
	case boundary:
		return Boundary
	case len(parents) == 0:
		return Initial
	case len(parents) > 1:
		return Merge
	default:
		return Commit
	}
}
