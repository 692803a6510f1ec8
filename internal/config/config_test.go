package config

import "testing"

func TestApplyPenguPresetFixedDisablesProgression(t *testing.T) {
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyHard) {
		t.Fatal("fixed preset classification is wrong")
	}

	cfg := DefaultPenguConfig()
	ApplyPenguPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset left progression enabled")
	}

	d := NewDifficultyManager(cfg.Difficulty)
	if d.IsEnabled() {
		t.Error("manager reports progression enabled for fixed preset")
	}
	if lvl := d.Level(1000, 1000); lvl != cfg.Difficulty.InitialLevel {
		t.Errorf("fixed level drifted to %v", lvl)
	}
}

func TestApplyPenguPresetLivesAndLevel(t *testing.T) {
	easy := DefaultPenguConfig()
	ApplyPenguPreset(&easy, DifficultyEasy)
	if easy.Gameplay.Lives != 5 || easy.Difficulty.InitialLevel != 0.0 {
		t.Errorf("easy preset: lives=%d level=%v", easy.Gameplay.Lives, easy.Difficulty.InitialLevel)
	}

	hard := DefaultPenguConfig()
	ApplyPenguPreset(&hard, DifficultyHard)
	if hard.Gameplay.Lives != 2 || hard.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: lives=%d level=%v", hard.Gameplay.Lives, hard.Difficulty.InitialLevel)
	}
}

func TestDifficultyLevelProgressesWithScore(t *testing.T) {
	cfg := DefaultPenguConfig().Difficulty
	d := NewDifficultyManager(cfg)
	if !d.IsEnabled() {
		t.Fatal("default config should progress")
	}

	if lvl := d.Level(0, 0); lvl != 0.0 {
		t.Errorf("level at score 0 = %v", lvl)
	}
	if lvl := d.Level(cfg.Progression.MaxAt/2, 0); lvl != 0.5 {
		t.Errorf("level at half max = %v", lvl)
	}
	if lvl := d.Level(cfg.Progression.MaxAt*10, 0); lvl != 1.0 {
		t.Errorf("level past max = %v, want capped at 1", lvl)
	}
}

func TestGetDefaultYAMLKnowsPengu(t *testing.T) {
	if len(GetDefaultYAML("pengu")) == 0 {
		t.Error("embedded pengu defaults missing")
	}
	if GetDefaultYAML("unknown") != nil {
		t.Error("unknown game should have no default YAML")
	}
}
