package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tigview/tigview/internal/config"
)

// Palette maps style names to lipgloss styles.
type Palette struct {
	styles map[string]lipgloss.Style
}

var DefaultPalette = NewPalette(config.Current.Colors)

func NewPalette(colors map[string]config.Color) *Palette {
	p := &Palette{styles: make(map[string]lipgloss.Style, len(colors))}
	p.Update(colors)
	return p
}

// Update replaces the named styles.
func (p *Palette) Update(colors map[string]config.Color) {
	for name, c := range colors {
		p.styles[name] = toStyle(c)
	}
}

// Get returns the named style or a plain style when the name is unknown.
func (p *Palette) Get(name string) lipgloss.Style {
	if s, ok := p.styles[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func toStyle(c config.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.Fg != "" {
		s = s.Foreground(lipgloss.Color(c.Fg))
	}
	if c.Bg != "" {
		s = s.Background(lipgloss.Color(c.Bg))
	}
	return s.Bold(c.Bold).Underline(c.Underline).Reverse(c.Reverse)
}
