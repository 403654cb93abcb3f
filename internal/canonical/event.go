package canonical

import "strings"

// EventType categorizes a play-by-play action.
type EventType string

const (
	EventShot         EventType = "shot"
	EventFreeThrow    EventType = "free_throw"
	EventRebound      EventType = "rebound"
	EventAssist       EventType = "assist"
	EventTurnover     EventType = "turnover"
	EventSteal        EventType = "steal"
	EventBlock        EventType = "block"
	EventFoul         EventType = "foul"
	EventSubstitution EventType = "substitution"
	EventTimeout      EventType = "timeout"
	EventJumpBall     EventType = "jump_ball"
	EventViolation    EventType = "violation"
	EventPeriod       EventType = "period"
	EventUnknown      EventType = "unknown"
)

// defaultEventAliases covers the action tokens shared across feeds. Provider
// adapters layer their own locale map on top for source-specific taxonomies.
var defaultEventAliases = map[string]EventType{
	"shot":         EventShot,
	"2pt":          EventShot,
	"3pt":          EventShot,
	"fgm":          EventShot,
	"fga":          EventShot,
	"layup":        EventShot,
	"dunk":         EventShot,
	"jumpshot":     EventShot,
	"free throw":   EventFreeThrow,
	"freethrow":    EventFreeThrow,
	"ft":           EventFreeThrow,
	"ftm":          EventFreeThrow,
	"fta":          EventFreeThrow,
	"rebound":      EventRebound,
	"reb":          EventRebound,
	"oreb":         EventRebound,
	"dreb":         EventRebound,
	"assist":       EventAssist,
	"ast":          EventAssist,
	"turnover":     EventTurnover,
	"to":           EventTurnover,
	"tov":          EventTurnover,
	"steal":        EventSteal,
	"stl":          EventSteal,
	"block":        EventBlock,
	"blk":          EventBlock,
	"foul":         EventFoul,
	"pf":           EventFoul,
	"cm":           EventFoul,
	"rv":           EventFoul,
	"substitution": EventSubstitution,
	"sub":          EventSubstitution,
	"in":           EventSubstitution,
	"out":          EventSubstitution,
	"timeout":      EventTimeout,
	"tout":         EventTimeout,
	"jump ball":    EventJumpBall,
	"jb":           EventJumpBall,
	"violation":    EventViolation,
	"viol":         EventViolation,
	"period":       EventPeriod,
	"bp":           EventPeriod,
	"ep":           EventPeriod,
	"קליעה":        EventShot,
	"זריקה חופשית": EventFreeThrow,
	"ריבאונד":      EventRebound,
	"אסיסט":        EventAssist,
	"איבוד":        EventTurnover,
	"חטיפה":        EventSteal,
	"חסימה":        EventBlock,
	"עבירה":        EventFoul,
	"חילוף":        EventSubstitution,
	"פסק זמן":      EventTimeout,
}

// ParseEventType resolves a raw play-by-play token. localeMap is the
// provider's own taxonomy and wins over the default table. Unmapped tokens
// degrade to EventUnknown with the lower-cased token as subtype, because
// play-by-play vocabularies differ per provider and an unknown action must
// not abort a sync.
func ParseEventType(raw string, localeMap map[string]EventType) (EventType, string) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return EventUnknown, ""
	}
	if localeMap != nil {
		if et, ok := localeMap[key]; ok {
			return et, key
		}
		// Locale tables are matched case-insensitively like the raw token,
		// so adapters may declare keys in the provider's original casing.
		for alias, et := range localeMap {
			if strings.ToLower(alias) == key {
				return et, key
			}
		}
	}
	if et, ok := defaultEventAliases[key]; ok {
		return et, key
	}
	return EventUnknown, key
}
