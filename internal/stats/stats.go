// Package stats aggregates and renders local game history.
package stats

import (
	"math"
	"strings"

	"github.com/obaydah/miftah/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of stored games.
type Summary struct {
	Games    int
	AvgWPM   float64
	BestWPM  int
	AvgAcc   float64
	Complete int
	Timeout  int
}

// Summarize computes the summary over games in any order.
func Summarize(games []model.GameAggregate) Summary {
	s := Summary{Games: len(games)}
	if len(games) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, g := range games {
		totalWPM += float64(g.WPM)
		totalAcc += float64(g.Accuracy)
		if g.WPM > s.BestWPM {
			s.BestWPM = g.WPM
		}
		switch g.Cause {
		case "complete":
			s.Complete++
		case "timeout":
			s.Timeout++
		}
	}
	count := float64(len(games))
	s.AvgWPM = totalWPM / count
	s.AvgAcc = totalAcc / count
	return s
}

// WPMSeries extracts the per-game WPM values, oldest first.
func WPMSeries(games []model.GameAggregate) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.WPM)
	}
	return out
}

// AccuracySeries extracts the per-game accuracy values, oldest first.
func AccuracySeries(games []model.GameAggregate) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.Accuracy)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks a series to at most width points by bucket averaging, so
// a long history fits one terminal row.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) == 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
