// Package extract parses an estimated calorie value out of generated free
// text. It runs only on LOG_FOOD replies, where the generation directive
// asks for the machine-parseable marker phrase.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Tier 1: the fixed marker phrase the LOG_FOOD directive instructs the
// generator to embed. Tier 2: any number followed by a calorie unit,
// accepting the locale decimal comma.
var (
	markerPattern  = regexp.MustCompile(`(?i)Estimate:\s*(\d+)\s*kcal`)
	generalPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:kcal|calorias|calories)`)
)

// Calories extracts the estimated kcal from generated text. The marker
// phrase takes priority over the general pattern; the first match wins
// within each tier. Values outside (0, 10000) are rejected.
func Calories(text string) (int, bool) {
	if m := markerPattern.FindStringSubmatch(text); m != nil {
		if kcal, err := strconv.Atoi(m[1]); err == nil && inRange(kcal) {
			return kcal, true
		}
		return 0, false
	}
	if m := generalPattern.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", ".")
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			kcal := int(math.Trunc(f))
			if inRange(kcal) {
				return kcal, true
			}
		}
	}
	return 0, false
}

func inRange(kcal int) bool {
	return kcal > 0 && kcal < 10000
}
