package playbyplay

import (
	"fmt"

	"github.com/courtdata/courtsync/internal/canonical"
)

// Event is one play-by-play row for a (game, source) pair. EventNumber is
// the provider's ordering; RelatedEventNumbers are opaque back-references
// into the same batch (a rebound pointing at its missed shot) and are kept
// without existence validation, since providers emit dangling links.
type Event struct {
	GameID              string
	Source              string
	EventNumber         int
	Period              int
	Clock               string
	TeamID              string
	PlayerID            string
	Type                canonical.EventType
	Subtype             string
	RelatedEventNumbers []int
	HomeScore           int
	AwayScore           int
}

func (e Event) Validate() error {
	if e.GameID == "" || e.Source == "" {
		return fmt.Errorf("event game id and source are required")
	}
	if e.EventNumber <= 0 {
		return fmt.Errorf("event number must be positive")
	}
	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	return nil
}
