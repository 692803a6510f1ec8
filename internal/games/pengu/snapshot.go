package pengu

// Snapshot captures the simulation as a JSON-friendly map suitable for the
// platform's save_game_state payload. Restore accepts the same shape.
func (g *Game) Snapshot() map[string]any {
	items := make([]any, 0, len(g.falls.Items()))
	for _, it := range g.falls.Items() {
		items = append(items, map[string]any{
			"x":    it.X,
			"y":    it.Y,
			"kind": int(it.Kind),
		})
	}
	return map[string]any{
		"players": g.numPlayers,
		"scores": map[string]any{
			"1": g.pens[0].score,
			"2": g.pens[1].score,
		},
		"positions": []any{g.pens[0].x, g.pens[1].x},
		"lives":     g.lives,
		"tick":      g.tickCount,
		"gameOver":  g.gameOver,
		"items":     items,
	}
}

// Restore loads a previously snapshotted state. Missing or malformed fields
// keep their current values; a decoded JSON map (numbers as float64) and a
// freshly built one (numbers as int) both work.
func (g *Game) Restore(state map[string]any) {
	if state == nil {
		return
	}

	if n, ok := asInt(state["players"]); ok {
		g.SetPlayers(n)
	}
	if scores, ok := state["scores"].(map[string]any); ok {
		if s, ok := asInt(scores["1"]); ok {
			g.pens[0].score = s
		}
		if s, ok := asInt(scores["2"]); ok {
			g.pens[1].score = s
		}
	}
	if positions, ok := state["positions"].([]any); ok {
		for i := 0; i < len(positions) && i < 2; i++ {
			if x, ok := asInt(positions[i]); ok {
				g.pens[i].x = x
			}
		}
	}
	if lives, ok := asInt(state["lives"]); ok {
		g.lives = lives
	}
	if tick, ok := asInt(state["tick"]); ok {
		g.tickCount = tick
	}
	if over, ok := state["gameOver"].(bool); ok {
		g.gameOver = over
	}

	if rawItems, ok := state["items"].([]any); ok && g.falls != nil {
		items := g.falls.items[:0]
		for _, raw := range rawItems {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			x, okX := asInt(m["x"])
			y, okY := asFloat(m["y"])
			kind, okK := asInt(m["kind"])
			if !okX || !okY || !okK {
				continue
			}
			items = append(items, Item{X: x, Y: y, Kind: ItemKind(kind)})
		}
		g.falls.items = items
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
