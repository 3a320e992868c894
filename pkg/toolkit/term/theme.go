package term

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Theme holds the glyphs the terminal toolkit draws with.
type Theme struct {
	Border   BorderTheme `toml:"border"`
	Button   PairTheme   `toml:"button"`
	Input    PairTheme   `toml:"input"`
	Checkbox MarkTheme   `toml:"checkbox"`
	Radio    MarkTheme   `toml:"radio"`

	// Shades maps image luminance to glyphs, darkest first.
	Shades string `toml:"shades"`

	// Width is the default render width in cells.
	Width int `toml:"width"`
}

// BorderTheme is the box-drawing set for blocks, panes and text areas.
type BorderTheme struct {
	Horizontal  string `toml:"horizontal"`
	Vertical    string `toml:"vertical"`
	TopLeft     string `toml:"top_left"`
	TopRight    string `toml:"top_right"`
	BottomLeft  string `toml:"bottom_left"`
	BottomRight string `toml:"bottom_right"`
}

// PairTheme brackets a widget's content.
type PairTheme struct {
	Left  string `toml:"left"`
	Right string `toml:"right"`
}

// MarkTheme is the checked and unchecked state of a toggle.
type MarkTheme struct {
	On  string `toml:"on"`
	Off string `toml:"off"`
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Border: BorderTheme{
			Horizontal:  "─",
			Vertical:    "│",
			TopLeft:     "┌",
			TopRight:    "┐",
			BottomLeft:  "└",
			BottomRight: "┘",
		},
		Button:   PairTheme{Left: "[ ", Right: " ]"},
		Input:    PairTheme{Left: "[", Right: "]"},
		Checkbox: MarkTheme{On: "[x]", Off: "[ ]"},
		Radio:    MarkTheme{On: "(•)", Off: "( )"},
		Shades:   " .:-=+*#%@",
		Width:    80,
	}
}

// ParseTheme decodes a TOML theme. Keys the document leaves out keep their
// default value.
func ParseTheme(data []byte) (Theme, error) {
	theme := DefaultTheme()
	if err := toml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("failed to parse theme: %w", err)
	}
	if err := theme.Validate(); err != nil {
		return theme, err
	}
	return theme, nil
}

// LoadTheme reads a TOML theme file. An empty path yields the default theme.
func LoadTheme(path string) (Theme, error) {
	if path == "" {
		return DefaultTheme(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultTheme(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	theme, err := ParseTheme(data)
	if err != nil {
		return theme, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// Validate checks the theme can draw every widget.
func (t Theme) Validate() error {
	if t.Shades == "" {
		return errors.New("theme: shades must not be empty")
	}
	if t.Border.Horizontal == "" || t.Border.Vertical == "" {
		return errors.New("theme: border glyphs must not be empty")
	}
	if t.Width < 4 {
		return fmt.Errorf("theme: width %d is too small", t.Width)
	}
	return nil
}
