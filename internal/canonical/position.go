// Package canonical converts raw provider field values into canonical typed
// values. Every parser here is total: malformed input yields a "no value"
// result, never an error or a panic. The lookup tables are the contract
// between provider adapters and the sync pipeline — adding a new provider
// language means extending a table, not changing callers.
package canonical

import "strings"

// Position is a canonical basketball position.
type Position string

const (
	PositionPointGuard    Position = "point_guard"
	PositionShootingGuard Position = "shooting_guard"
	PositionGuard         Position = "guard"
	PositionSmallForward  Position = "small_forward"
	PositionPowerForward  Position = "power_forward"
	PositionForward       Position = "forward"
	PositionCenter        Position = "center"
)

// positionAliases spans standard abbreviations, full English words and the
// Hebrew terms used by the Winner League feed. Keys are lower-cased.
var positionAliases = map[string]Position{
	"pg":             PositionPointGuard,
	"point guard":    PositionPointGuard,
	"point":          PositionPointGuard,
	"playmaker":      PositionPointGuard,
	"רכז":            PositionPointGuard,
	"sg":             PositionShootingGuard,
	"shooting guard": PositionShootingGuard,
	"קלע":            PositionShootingGuard,
	"g":              PositionGuard,
	"guard":          PositionGuard,
	"גארד":           PositionGuard,
	"sf":             PositionSmallForward,
	"small forward":  PositionSmallForward,
	"כנף":            PositionSmallForward,
	"pf":             PositionPowerForward,
	"power forward":  PositionPowerForward,
	"פורוורד חזק":    PositionPowerForward,
	"f":              PositionForward,
	"forward":        PositionForward,
	"פורוורד":        PositionForward,
	"c":              PositionCenter,
	"center":         PositionCenter,
	"centre":         PositionCenter,
	"pivot":          PositionCenter,
	"סנטר":           PositionCenter,
}

// ParsePosition maps a single raw position token to a canonical position.
func ParsePosition(raw string) (Position, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	pos, ok := positionAliases[key]
	return pos, ok
}

// ParsePositions parses combo notations such as "PG/SG", "G-F" or "C, PF".
// Unparseable tokens are dropped; duplicates keep their first-seen order.
// The result may be empty but is never nil-vs-meaningful ambiguous.
func ParsePositions(raw string) []Position {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '-' || r == ','
	})

	out := make([]Position, 0, len(tokens))
	seen := make(map[Position]struct{}, len(tokens))
	for _, token := range tokens {
		pos, ok := ParsePosition(token)
		if !ok {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, pos)
	}

	return out
}
