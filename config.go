package gekko

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/gekko-grid/frame"
	"github.com/gekko3d/gekko-grid/grid"
)

var ErrInvalidConfig = errors.New("invalid config")

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Config struct {
	Grid          grid.GridSpec `yaml:"grid"`
	Window        WindowConfig  `yaml:"window"`
	ColorInterval Duration      `yaml:"color_interval"`
	// Background is a CSS color name ("darkslategray") or hex ("#40404d").
	// Empty means frame.Background.
	Background string `yaml:"background"`
	// LowPower asks for an integrated adapter instead of a discrete one.
	LowPower bool `yaml:"low_power"`
	Debug    bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Grid: grid.DefaultSpec(),
		Window: WindowConfig{
			Width:  800,
			Height: 800,
			Title:  "Gekko Grid",
		},
		ColorInterval: Duration(time.Second),
		Background:    "",
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.ColorInterval <= 0 {
		return fmt.Errorf("%w: color_interval must be positive", ErrInvalidConfig)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return err
	}
	return nil
}

func (c Config) BackgroundColor() frame.Color {
	col, err := ParseColor(c.Background)
	if err != nil {
		return frame.Background
	}
	return col
}

// ParseColor accepts a CSS color name or a #rgb/#rrggbb hex string. An
// empty string yields the default background.
func ParseColor(s string) (frame.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return frame.Background, nil
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return frame.Color{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
			A: 1,
		}, nil
	}
	hex, err := colorful.Hex(s)
	if err != nil {
		return frame.Color{}, fmt.Errorf("%w: background %q: %w", ErrInvalidConfig, s, err)
	}
	return frame.Color{R: hex.R, G: hex.G, B: hex.B, A: 1}, nil
}
