package view

import "github.com/tigview/tigview/internal/ui/intents"

// Type tags a view implementation. Views are singletons per type.
type Type int

const (
	Main Type = iota
	Diff
	Log
	Tree
	Blob
	Blame
	Status
	Stage
	Help

	typeCount
)

var typeNames = [typeCount]string{"main", "diff", "log", "tree", "blob", "blame", "status", "stage", "help"}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// Request is the request that opens a view of this type.
func (t Type) Request() intents.Request {
	return intents.ViewMain + intents.Request(t)
}

func TypeFor(r intents.Request) (Type, bool) {
	if !r.IsViewOpen() {
		return 0, false
	}
	return Type(r - intents.ViewMain), true
}

func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// DiffLike views pass diff options to their command.
func (t Type) DiffLike() bool {
	return t == Diff || t == Stage
}

// LogLike views pass log options to their command.
func (t Type) LogLike() bool {
	return t == Main || t == Log
}

func (t Type) StatusLike() bool {
	return t == Status
}

// Pager views show command output as plain text lines.
func (t Type) Pager() bool {
	return t == Diff || t == Log || t == Stage
}
