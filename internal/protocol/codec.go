package protocol

// Normalize canonicalizes a game-state value so consumers only ever see a
// "gameState" field. Historical wire envelopes used "data" for the same
// payload; senders from either era must be interchangeable.
//
// Rules:
//   - non-map input passes through unchanged
//   - a map already carrying "gameState" is returned as-is, except that a
//     coexisting legacy "data" key is resolved: non-empty "gameState" wins,
//     otherwise "data" takes its place
//   - a map carrying only "data" is rewritten to "gameState"
//   - a flat map with neither key is wrapped as {"gameState": input}
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	gs, hasGS := m["gameState"]
	data, hasData := m["data"]

	switch {
	case hasGS && !hasData:
		return m
	case hasGS && hasData:
		out := cloneWithout(m, "data")
		if isEmptyState(gs) {
			out["gameState"] = data
		}
		return out
	case hasData:
		out := cloneWithout(m, "data")
		out["gameState"] = data
		return out
	default:
		return map[string]any{"gameState": m}
	}
}

// NormalizeMap is Normalize constrained to map results, for call sites that
// already hold a decoded JSON object.
func NormalizeMap(m map[string]any) map[string]any {
	out, _ := Normalize(m).(map[string]any)
	return out
}

func cloneWithout(m map[string]any, skip string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == skip {
			continue
		}
		out[k] = v
	}
	return out
}

func isEmptyState(v any) bool {
	if v == nil {
		return true
	}
	if m, ok := v.(map[string]any); ok {
		return len(m) == 0
	}
	return false
}
