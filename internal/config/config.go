package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelstudio/internal/preset"
)

// Tempo trim and scene duration slider ranges
const (
	MinTempoBoost  = -0.3
	MaxTempoBoost  = 0.5
	TempoBoostStep = 0.05

	MinSceneEdit  = 2.0
	MaxSceneEdit  = 6.5
	SceneEditStep = 0.1
)

type Config struct {
	Format     string  `yaml:"format" toml:"format"`
	Background string  `yaml:"background" toml:"background"`
	Idea       string  `yaml:"idea" toml:"idea"`
	TempoBoost float64 `yaml:"tempo_boost" toml:"tempo_boost"`
	Autoplay   bool    `yaml:"autoplay" toml:"autoplay"`

	TickInterval time.Duration `yaml:"tick_interval" toml:"tick_interval"`
	PreviewFor   time.Duration `yaml:"preview_for" toml:"preview_for"`

	InputDir  string `yaml:"input_dir" toml:"input_dir"`
	ExportDir string `yaml:"export_dir" toml:"export_dir"`
	LogFile   string `yaml:"log_file" toml:"log_file"`

	CardWidth  int `yaml:"card_width" toml:"card_width"`
	CardHeight int `yaml:"card_height" toml:"card_height"`
	QRSize     int `yaml:"qr_size" toml:"qr_size"`

	ShowStats    bool   `yaml:"show_stats" toml:"show_stats"`
	BuildVersion string `yaml:"-" toml:"-"`
}

// Default returns the settings the studio starts with when no file is given.
func Default() *Config {
	return &Config{
		Format:       preset.Default().ID,
		Background:   preset.DefaultBackground().ID,
		Autoplay:     true,
		TickInterval: 120 * time.Millisecond,
		PreviewFor:   10 * time.Second,
		InputDir:     "input/scripts",
		ExportDir:    "output",
		LogFile:      "reelstudio.log",
		CardWidth:    720,
		CardHeight:   1280,
		QRSize:       256,
	}
}

// Load reads a YAML or TOML file on top of Default. The format is chosen by
// extension; anything other than .toml is parsed as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks preset ids and numeric ranges.
func (c *Config) Validate() error {
	if _, err := preset.FormatByID(c.Format); err != nil {
		return err
	}
	if _, err := preset.BackgroundByID(c.Background); err != nil {
		return err
	}
	if c.TempoBoost < MinTempoBoost || c.TempoBoost > MaxTempoBoost {
		return fmt.Errorf("tempo_boost %.2f out of range [%.2f, %.2f]", c.TempoBoost, MinTempoBoost, MaxTempoBoost)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.PreviewFor <= 0 {
		return fmt.Errorf("preview_for must be positive, got %s", c.PreviewFor)
	}
	if c.CardWidth <= 0 || c.CardHeight <= 0 {
		return fmt.Errorf("card size must be positive, got %dx%d", c.CardWidth, c.CardHeight)
	}
	if c.QRSize <= 0 {
		return fmt.Errorf("qr_size must be positive, got %d", c.QRSize)
	}
	return nil
}
