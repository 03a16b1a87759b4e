package view

import (
	"fmt"
	"regexp"
)

// Search compiles pattern and moves to the first match after the cursor, or
// before it when backwards is set.
func (v *View) Search(pattern string, backwards bool) error {
	if pattern == "" {
		if v.Pattern == nil {
			return fmt.Errorf("no previous search")
		}
		return v.Find(false)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid search pattern: %w", err)
	}
	v.Pattern = re
	v.backwards = backwards
	return v.Find(false)
}

// Find repeats the last search; reverse flips its direction.
func (v *View) Find(reverse bool) error {
	if v.Pattern == nil {
		return fmt.Errorf("no previous search")
	}
	step := 1
	if v.backwards != reverse {
		step = -1
	}
	for i := v.Cursor + step; i >= 0 && i < v.Lines.Len(); i += step {
		if v.Ops.Grep(v, v.Lines.At(i), v.Pattern) {
			v.MoveTo(i)
			return nil
		}
	}
	return fmt.Errorf("no match found for '%s'", v.Pattern)
}
