package framedbg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences shared by the debugger components.
// The zero value is not useful; start from DefaultConfig.
type Config struct {
	Formatter FormatterConfig `yaml:"formatter"`

	// DisplayInts makes integer the default cast for watch expressions
	// and register panels.
	DisplayInts bool `yaml:"display_ints"`

	Timeline TimelineConfig `yaml:"timeline"`
}

// FormatterConfig controls how floating point register values are printed.
type FormatterConfig struct {
	MinFigures int `yaml:"min_figures"`
	MaxFigures int `yaml:"max_figures"`
	NegExp     int `yaml:"neg_exp"`
	PosExp     int `yaml:"pos_exp"`
}

// TimelineConfig controls section building and painting of the timeline.
type TimelineConfig struct {
	// ApplyColours paints marker sections in their marker colour.
	ApplyColours bool `yaml:"apply_colours"`

	// HideEmptyMarkers drops marker regions with no visible children.
	HideEmptyMarkers bool `yaml:"hide_empty_markers"`

	// HideAPICalls drops marker regions containing only API-call events.
	HideAPICalls bool `yaml:"hide_api_calls"`

	// FontSize is the label font size in pixels.
	FontSize float64 `yaml:"font_size"`

	// ZoomStep is the wheel delta that scales zoom by a factor of e.
	ZoomStep float64 `yaml:"zoom_step"`
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() Config {
	return Config{
		Formatter: FormatterConfig{
			MinFigures: 2,
			MaxFigures: 5,
			NegExp:     5,
			PosExp:     7,
		},
		Timeline: TimelineConfig{
			ApplyColours: true,
			FontSize:     10,
			ZoomStep:     2500,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig, so absent keys keep
// their defaults. Out of range values are clamped.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("framedbg: parse config: %w", err)
	}
	cfg.clamp()
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("framedbg: load config: %w", err)
	}
	return ParseConfig(data)
}

func (c *Config) clamp() {
	c.Formatter.MinFigures = max(0, c.Formatter.MinFigures)
	c.Formatter.MaxFigures = max(2, c.Formatter.MaxFigures)
	c.Formatter.NegExp = max(0, c.Formatter.NegExp)
	c.Formatter.PosExp = max(0, c.Formatter.PosExp)
	if c.Timeline.FontSize <= 0 {
		c.Timeline.FontSize = 10
	}
	if c.Timeline.ZoomStep <= 0 {
		c.Timeline.ZoomStep = 2500
	}
}
