package canonical

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Height is a player height in whole centimeters.
type Height int

// Plausible adult player range. Anything outside is treated as unparseable
// rather than clamped, since out-of-range values are almost always unit bugs
// in the source feed.
const (
	minHeightCm = 120
	maxHeightCm = 230
)

var feetInchesPattern = regexp.MustCompile(`^\s*(\d)\s*(?:'|-|\s*ft\.?\s*)\s*(\d{1,2})\s*(?:"|''|in\.?)?\s*$`)

// ParseHeight accepts the height representations seen across providers:
// an int or float (values <= 3 are meters, otherwise centimeters), a
// feet-inches string (6'8", 6-8, 6 ft 8 in) or a plain numeric string.
func ParseHeight(value any) (Height, bool) {
	switch v := value.(type) {
	case int:
		return heightFromNumber(float64(v))
	case int64:
		return heightFromNumber(float64(v))
	case float64:
		return heightFromNumber(v)
	case float32:
		return heightFromNumber(float64(v))
	case string:
		return parseHeightString(v)
	default:
		return 0, false
	}
}

func parseHeightString(raw string) (Height, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if m := feetInchesPattern.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches, _ := strconv.Atoi(m[2])
		if inches >= 12 {
			return 0, false
		}
		cm := math.Round(float64(feet)*30.48 + float64(inches)*2.54)
		return validHeight(cm)
	}

	s = strings.TrimSuffix(strings.ToLower(s), "cm")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return heightFromNumber(num)
}

func heightFromNumber(num float64) (Height, bool) {
	if num <= 0 {
		return 0, false
	}
	// Sources that report meters ("2.08") instead of centimeters.
	if num <= 3 {
		num *= 100
	}
	return validHeight(math.Round(num))
}

func validHeight(cm float64) (Height, bool) {
	h := Height(cm)
	if h < minHeightCm || h > maxHeightCm {
		return 0, false
	}
	return h, true
}
