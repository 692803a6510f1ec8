// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// PenguConfig contains all configuration for the Pengu Drop game.
type PenguConfig struct {
	Physics    PenguPhysics     `yaml:"physics"`
	Spawner    PenguSpawner     `yaml:"spawner"`
	Player     PenguPlayer      `yaml:"player"`
	Gameplay   PenguGameplay    `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PenguPhysics defines movement parameters.
type PenguPhysics struct {
	FallSpeed    float64 `yaml:"fall_speed"`     // Base cells per tick for falling items
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // Hard ceiling after difficulty scaling
	MoveSpeed    int     `yaml:"move_speed"`     // Cells the penguin slides per input
}

// PenguSpawner defines how falling items are generated.
type PenguSpawner struct {
	MinSpacing   int     `yaml:"min_spacing"`   // Minimum ticks between spawns
	MaxSpacing   int     `yaml:"max_spacing"`   // Maximum ticks between spawns
	HazardChance float64 `yaml:"hazard_chance"` // Probability a spawn is a hazard
	GoldenChance float64 `yaml:"golden_chance"` // Probability a fish spawn is golden
}

// PenguPlayer defines the penguin's dimensions and start position.
type PenguPlayer struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	GroundOffset int `yaml:"ground_offset"` // Rows between the penguin and the bottom edge
}

// PenguGameplay defines scoring and lives.
type PenguGameplay struct {
	Lives        int `yaml:"lives"`
	FishPoints   int `yaml:"fish_points"`
	GoldenPoints int `yaml:"golden_points"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Multiplier added to fall speed at max difficulty
	SpacingReduction int     `yaml:"spacing_reduction"` // Spawn spacing reduction at max difficulty
	HazardIncrease   float64 `yaml:"hazard_increase"`   // Hazard chance added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
