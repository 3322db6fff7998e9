package analysis

import (
	"strings"

	"filmintel/internal/services/hf"
)

// Valence/arousal projections for the emotion classifier's label set.
var (
	valenceMap = map[string]float64{
		"joy": 0.9, "love": 0.8, "surprise": 0.3,
		"anger": -0.8, "fear": -0.6, "sadness": -0.9,
	}
	arousalMap = map[string]float64{
		"joy": 0.5, "love": 0.4, "surprise": 0.9,
		"anger": 0.8, "fear": 0.7, "sadness": -0.5,
	}
)

// valenceArousal collapses classifier scores into a single valence/arousal
// pair on the -10..10 scale. Labels outside the projection maps (such as
// "neutral") contribute nothing.
func valenceArousal(scores []hf.Emotion) (valence, arousal int) {
	var v, a float64
	for _, score := range scores {
		label := strings.ToLower(score.Label)
		weight, known := valenceMap[label]
		if !known {
			continue
		}
		v += score.Score * weight
		a += score.Score * arousalMap[label]
	}
	return clampScale(v * 10), clampScale(a * 10)
}

func clampScale(value float64) int {
	if value > 10 {
		return 10
	}
	if value < -10 {
		return -10
	}
	return int(value)
}
