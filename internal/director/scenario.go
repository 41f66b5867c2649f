package director

import "time"

// BlueprintVersion is written into every exported blueprint.
const BlueprintVersion = "1.0"

// Scene is one timed unit of the reel.
type Scene struct {
	ID       string  `yaml:"id" json:"id"`
	Tag      string  `yaml:"tag" json:"tag"`
	Copy     string  `yaml:"copy" json:"copy"`
	Duration float64 `yaml:"duration" json:"duration"` // seconds
	Motion   string  `yaml:"motion" json:"motion"`
	Overlay  string  `yaml:"overlay" json:"overlay"`
	Beat     string  `yaml:"beat" json:"beat"`
}

// Blueprint is the exported snapshot of a studio session
type Blueprint struct {
	Version        string    `yaml:"version"`
	SessionID      string    `yaml:"session_id"`
	CreatedAt      time.Time `yaml:"created_at"`
	Format         string    `yaml:"format"`
	Background     string    `yaml:"background"`
	Idea           string    `yaml:"idea"`
	Script         string    `yaml:"script"`
	TempoBoost     float64   `yaml:"tempo_boost"`
	Scenes         []Scene   `yaml:"scenes"`
	Runtime        float64   `yaml:"runtime"` // Sum of scene durations in seconds
	RetentionScore int       `yaml:"retention_score"`
}
