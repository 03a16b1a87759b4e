package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed default/config.toml
var defaultConfig string

var Current = mustDefault()

type Config struct {
	UI       UIConfig                     `toml:"ui"`
	Options  OptionsConfig                `toml:"options"`
	Keys     map[string]map[string]string `toml:"keys"`
	Commands map[string][]string          `toml:"commands"`
	Colors   map[string]Color             `toml:"colors"`
}

// Color is a palette entry. Fg and Bg take anything lipgloss accepts as a
// color: ANSI numbers or hex values.
type Color struct {
	Fg        string `toml:"fg"`
	Bg        string `toml:"bg"`
	Bold      bool   `toml:"bold"`
	Underline bool   `toml:"underline"`
	Reverse   bool   `toml:"reverse"`
}

type UIConfig struct {
	PollIntervalMs  int     `toml:"poll_interval_ms"`
	ProbeMicros     int     `toml:"probe_us"`
	DrainBudgetMs   int     `toml:"drain_budget_ms"`
	SplitRatio      float64 `toml:"split_ratio"`
	GraphMaxColumns int     `toml:"graph_max_columns"`
	TabSize         int     `toml:"tab_size"`
	AuthorWidth     int     `toml:"author_width"`
	TitleOverflow   int     `toml:"title_overflow"`
	AutoRefresh     bool    `toml:"auto_refresh"`
	RefreshDelayMs  int     `toml:"refresh_delay_ms"`
	HighlightStyle  string  `toml:"highlight_style"`
}

type OptionsConfig struct {
	LineNumbers   bool   `toml:"line_numbers"`
	Date          string `toml:"date"`
	Author        bool   `toml:"author"`
	LineGraphics  string `toml:"line_graphics"`
	RevGraph      bool   `toml:"rev_graph"`
	Refs          bool   `toml:"refs"`
	ID            bool   `toml:"id"`
	IgnoreSpace   string `toml:"ignore_space"`
	CommitOrder   string `toml:"commit_order"`
	TitleOverflow bool   `toml:"title_overflow"`
	UntrackedDirs bool   `toml:"untracked_dirs"`
	VerticalSplit bool   `toml:"vertical_split"`
	Highlight     bool   `toml:"highlight"`
}

func (u UIConfig) PollInterval() time.Duration {
	return time.Duration(max(u.PollIntervalMs, 1)) * time.Millisecond
}

func (u UIConfig) Probe() time.Duration {
	return time.Duration(max(u.ProbeMicros, 1)) * time.Microsecond
}

func (u UIConfig) DrainBudget() time.Duration {
	return time.Duration(max(u.DrainBudgetMs, 1)) * time.Millisecond
}

func (u UIConfig) RefreshDelay() time.Duration {
	return time.Duration(max(u.RefreshDelayMs, 1)) * time.Millisecond
}

func Default() (*Config, error) {
	c := &Config{}
	if _, err := toml.Decode(defaultConfig, c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return c, nil
}

func mustDefault() *Config {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Path returns the user configuration file location.
func Path() string {
	if p := os.Getenv("TIGVIEW_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tigview", "config.toml")
}

// Load merges the file at path into Current. A missing file is not an error.
func Load(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := Current.Merge(string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Merge decodes data on top of c. Key sections are merged binding by
// binding instead of being replaced.
func (c *Config) Merge(data string) error {
	previous := c.Keys
	c.Keys = nil
	if _, err := toml.Decode(data, c); err != nil {
		c.Keys = previous
		return err
	}
	overrides := c.Keys
	c.Keys = previous
	if c.Keys == nil {
		c.Keys = make(map[string]map[string]string)
	}
	for section, bindings := range overrides {
		if c.Keys[section] == nil {
			c.Keys[section] = make(map[string]string)
		}
		for k, request := range bindings {
			c.Keys[section][k] = request
		}
	}
	return nil
}
