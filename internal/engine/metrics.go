package engine

import (
	"math"
	"time"
)

// minElapsed is the floor applied to elapsed time before the WPM division, so
// that finishing within the first few hundred milliseconds cannot inflate the
// result.
const minElapsed = 500 * time.Millisecond

// standardWordLen is the 5-characters-per-word convention used by typing
// speed tools.
const standardWordLen = 5

// Metrics is the frozen result of a finished game.
type Metrics struct {
	WPM      int
	Accuracy int
}

// ComputeMetrics derives WPM and accuracy from the correct-character count,
// the normalized typed length, and the elapsed time. Elapsed is clamped to
// [minElapsed, limit]. Both outputs are non-negative; accuracy is 0-100.
func ComputeMetrics(correct, typed int, elapsed, limit time.Duration) Metrics {
	if correct < 0 {
		correct = 0
	}
	if typed < correct {
		typed = correct
	}

	accuracy := 0
	if typed > 0 {
		accuracy = int(math.Round(100 * float64(correct) / float64(typed)))
		if accuracy > 100 {
			accuracy = 100
		}
	}

	if limit > 0 && elapsed > limit {
		elapsed = limit
	}
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	minutes := elapsed.Minutes()
	wpm := 0
	if minutes > 0 {
		wpm = int(math.Round(float64(correct) / standardWordLen / minutes))
	}
	return Metrics{WPM: wpm, Accuracy: accuracy}
}
