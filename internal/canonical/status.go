package canonical

import "strings"

// GameStatus is the canonical lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
	StatusPostponed GameStatus = "postponed"
	StatusCancelled GameStatus = "cancelled"
)

var gameStatusAliases = map[string]GameStatus{
	"scheduled":   StatusScheduled,
	"fixture":     StatusScheduled,
	"upcoming":    StatusScheduled,
	"not started": StatusScheduled,
	"ns":          StatusScheduled,
	"טרם החל":     StatusScheduled,
	"live":        StatusLive,
	"in progress": StatusLive,
	"inplay":      StatusLive,
	"in play":     StatusLive,
	"playing":     StatusLive,
	"halftime":    StatusLive,
	"ht":          StatusLive,
	"q1":          StatusLive,
	"q2":          StatusLive,
	"q3":          StatusLive,
	"q4":          StatusLive,
	"ot":          StatusLive,
	"משחק חי":     StatusLive,
	"final":       StatusFinal,
	"finished":    StatusFinal,
	"ended":       StatusFinal,
	"closed":      StatusFinal,
	"complete":    StatusFinal,
	"ft":          StatusFinal,
	"aot":         StatusFinal,
	"after ot":    StatusFinal,
	"תם":          StatusFinal,
	"הסתיים":      StatusFinal,
	"postponed":   StatusPostponed,
	"delayed":     StatusPostponed,
	"נדחה":        StatusPostponed,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"abandoned":   StatusCancelled,
	"בוטל":        StatusCancelled,
}

// ParseGameStatus maps provider status strings onto the canonical enum.
// Unknown statuses return false; callers must then treat the game as
// not-final and skip final-only work such as box score ingestion.
func ParseGameStatus(raw string) (GameStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	status, ok := gameStatusAliases[key]
	return status, ok
}
