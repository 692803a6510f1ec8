package pengu

import (
	"math/rand"

	"github.com/pengulab/pengu-arcade/internal/config"
	"github.com/pengulab/pengu-arcade/internal/core"
)

// ItemKind classifies a falling item.
type ItemKind int

const (
	ItemFish ItemKind = iota
	ItemGolden
	ItemHazard
)

// Item is one falling object. Y is float64 so sub-cell fall speeds
// accumulate across ticks.
type Item struct {
	X    int
	Y    float64
	Kind ItemKind
}

// Rect returns the item's collision rectangle (1x1 cell).
func (it Item) Rect() core.Rect {
	return core.NewRect(it.X, int(it.Y), 1, 1)
}

// FallManager handles spawning, movement, and removal of falling items.
type FallManager struct {
	items      []Item
	rng        *rand.Rand
	screenW    int
	screenH    int
	spawnIn    int // ticks until the next spawn
	cfg        *config.PenguConfig
	difficulty *config.DifficultyManager
}

// NewFallManager creates a fall manager with the given RNG seed.
func NewFallManager(seed int64, screenW, screenH int, cfg *config.PenguConfig, diff *config.DifficultyManager) *FallManager {
	fm := &FallManager{
		items:      make([]Item, 0, 16),
		screenW:    screenW,
		screenH:    screenH,
		cfg:        cfg,
		difficulty: diff,
	}
	fm.Reset(seed)
	return fm
}

// Reset clears all items and resets the RNG.
func (fm *FallManager) Reset(seed int64) {
	fm.items = fm.items[:0]
	fm.rng = rand.New(rand.NewSource(seed))
	fm.spawnIn = fm.cfg.Spawner.MaxSpacing
}

// UpdateScreenSize updates the screen dimensions.
func (fm *FallManager) UpdateScreenSize(screenW, screenH int) {
	fm.screenW = screenW
	fm.screenH = screenH
}

// Update advances all items by one tick and spawns new ones on schedule.
// Items that reach the ground uncaught vanish without penalty.
func (fm *FallManager) Update(groundY, score, ticks int) {
	speed := fm.difficulty.Speed(fm.cfg.Physics.FallSpeed, score, ticks)
	if speed > fm.cfg.Physics.MaxFallSpeed {
		speed = fm.cfg.Physics.MaxFallSpeed
	}

	alive := fm.items[:0]
	for _, it := range fm.items {
		it.Y += speed
		if int(it.Y) >= groundY {
			continue
		}
		alive = append(alive, it)
	}
	fm.items = alive

	fm.spawnIn--
	if fm.spawnIn <= 0 {
		fm.spawn(score, ticks)
		fm.scheduleNext(score, ticks)
	}
}

func (fm *FallManager) scheduleNext(score, ticks int) {
	minSpacing := fm.difficulty.Spacing(fm.cfg.Spawner.MinSpacing, score, ticks)
	maxSpacing := fm.difficulty.Spacing(fm.cfg.Spawner.MaxSpacing, score, ticks)
	if maxSpacing < minSpacing {
		maxSpacing = minSpacing
	}
	fm.spawnIn = minSpacing
	if maxSpacing > minSpacing {
		fm.spawnIn = minSpacing + fm.rng.Intn(maxSpacing-minSpacing+1)
	}
}

func (fm *FallManager) spawn(score, ticks int) {
	x := fm.rng.Intn(core.Clamp(fm.screenW-2, 1, fm.screenW)) + 1

	kind := ItemFish
	hazardChance := fm.difficulty.HazardChance(fm.cfg.Spawner.HazardChance, score, ticks)
	switch roll := fm.rng.Float64(); {
	case roll < hazardChance:
		kind = ItemHazard
	case roll < hazardChance+fm.cfg.Spawner.GoldenChance:
		kind = ItemGolden
	}

	fm.items = append(fm.items, Item{X: x, Y: 0, Kind: kind})
}

// Items returns the current falling items.
func (fm *FallManager) Items() []Item {
	return fm.items
}

// Catch removes every item intersecting the catcher rect and reports what
// was caught.
func (fm *FallManager) Catch(catcher core.Rect) (fish, golden, hazards int) {
	alive := fm.items[:0]
	for _, it := range fm.items {
		if catcher.Intersects(it.Rect()) {
			switch it.Kind {
			case ItemFish:
				fish++
			case ItemGolden:
				golden++
			case ItemHazard:
				hazards++
			}
			continue
		}
		alive = append(alive, it)
	}
	fm.items = alive
	return fish, golden, hazards
}
