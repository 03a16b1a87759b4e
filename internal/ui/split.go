package ui

type rect struct {
	width  int
	height int
}

type splitState struct {
	Percent    float64
	MinPercent float64
	MaxPercent float64
}

func newSplitState(ratio float64) *splitState {
	s := &splitState{
		Percent:    ratio * 100,
		MinPercent: 10,
		MaxPercent: 90,
	}
	s.clamp()
	return s
}

func (s *splitState) clamp() {
	if s.Percent < s.MinPercent {
		s.Percent = s.MinPercent
	}
	if s.Percent > s.MaxPercent {
		s.Percent = s.MaxPercent
	}
}

// split divides the screen between the displayed panes. The second pane
// gets Percent of the space, the first one the rest.
type split struct {
	State    *splitState
	Vertical bool
}

// Separator is the width of the column between side by side panes.
const Separator = 1

func (s *split) layout(width, height, panes int) []rect {
	if panes < 2 {
		return []rect{{width, height}}
	}
	if s.Vertical {
		avail := max(width-Separator, 0)
		second := s.share(avail)
		return []rect{{avail - second, height}, {second, height}}
	}
	second := s.share(height)
	return []rect{{width, height - second}, {width, second}}
}

func (s *split) share(total int) int {
	if total < 4 {
		return total / 2
	}
	n := int(float64(total) * s.State.Percent / 100)
	return min(max(n, 2), total-2)
}
