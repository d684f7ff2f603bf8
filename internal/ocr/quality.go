package ocr

import (
	"regexp"
	"strings"
)

// Quality-gate tunables. These thresholds are inherited product
// constants, not derived from measurement; adjust with care.
const (
	gibberishWordRatio = 0.5
	strongWordRatio    = 0.8
	longTextLength     = 100

	baseAccuracy         = 0.5
	strongRatioBonus     = 0.3
	longTextBonus        = 0.1
	capitalizedWordBonus = 0.1
	defaultDetectedLang  = "en"
)

var (
	// A token counts as a valid word when longer than one rune and
	// built from letters, digits, and common punctuation only.
	validWordPattern      = regexp.MustCompile(`^[a-zA-Z0-9.,;:!?'"()\[\]/%$&@#-]+$`)
	capitalizedWordSignal = regexp.MustCompile(`[A-Z][a-z]+`)
)

// Assessment is the derived quality view of one extraction result.
// Computed fresh from the text each time, never mutated.
type Assessment struct {
	TextLength        int
	HasValidText      bool
	Confidence        float64
	EstimatedAccuracy float64
	ValidWordRatio    float64
	ContainsGibberish bool
	DetectedLanguage  string
}

// AssessQuality scores extracted text. engineConfidence, when the engine
// reported one, takes precedence over the heuristic estimate. Never fails.
func AssessQuality(text string, engineConfidence *float64) Assessment {
	trimmed := strings.TrimSpace(text)

	a := Assessment{
		TextLength:       len(text),
		HasValidText:     trimmed != "",
		DetectedLanguage: defaultDetectedLang,
	}

	words := strings.Fields(trimmed)
	if len(words) > 0 {
		valid := 0
		for _, w := range words {
			if len(w) > 1 && validWordPattern.MatchString(w) {
				valid++
			}
		}
		a.ValidWordRatio = float64(valid) / float64(len(words))
	}
	a.ContainsGibberish = a.ValidWordRatio < gibberishWordRatio

	if engineConfidence != nil {
		a.EstimatedAccuracy = clamp01(*engineConfidence)
		a.Confidence = a.EstimatedAccuracy
		return a
	}

	accuracy := baseAccuracy
	if a.ValidWordRatio > strongWordRatio {
		accuracy += strongRatioBonus
	}
	if len(trimmed) > longTextLength {
		accuracy += longTextBonus
	}
	if capitalizedWordSignal.MatchString(trimmed) {
		accuracy += capitalizedWordBonus
	}
	a.EstimatedAccuracy = clamp01(accuracy)
	a.Confidence = a.EstimatedAccuracy
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
