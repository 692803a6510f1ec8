package config

import (
	_ "embed"
)

//go:embed defaults/pengu.yaml
var defaultPenguYAML []byte

// DefaultPenguConfig returns the default Pengu Drop configuration.
func DefaultPenguConfig() PenguConfig {
	return PenguConfig{
		Physics: PenguPhysics{
			FallSpeed:    0.4,
			MaxFallSpeed: 1.2,
			MoveSpeed:    2,
		},
		Spawner: PenguSpawner{
			MinSpacing:   20,
			MaxSpacing:   45,
			HazardChance: 0.25,
			GoldenChance: 0.1,
		},
		Player: PenguPlayer{
			Width:        3,
			Height:       2,
			GroundOffset: 1,
		},
		Gameplay: PenguGameplay{
			Lives:        3,
			FishPoints:   1,
			GoldenPoints: 5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 60,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.0,
				SpacingReduction: 18,
				HazardIncrease:   0.15,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "pengu":
		return defaultPenguYAML
	default:
		return nil
	}
}
