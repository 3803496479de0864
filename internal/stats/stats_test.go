package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/obaydah/miftah/internal/model"
)

func sampleGames() []model.GameAggregate {
	base := time.Unix(0, 0)
	return []model.GameAggregate{
		{GameID: 1, EndedAt: base, Lang: "ar", WPM: 30, Accuracy: 80, DurationMs: 60000, Cause: "timeout"},
		{GameID: 2, EndedAt: base.Add(time.Hour), Lang: "ar", WPM: 42, Accuracy: 92, DurationMs: 45000, Cause: "complete"},
		{GameID: 3, EndedAt: base.Add(2 * time.Hour), Lang: "ar", WPM: 36, Accuracy: 88, DurationMs: 60000, Cause: "timeout"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleGames())
	if s.Games != 3 {
		t.Fatalf("expected 3 games, got %d", s.Games)
	}
	if s.BestWPM != 42 {
		t.Fatalf("expected best 42, got %d", s.BestWPM)
	}
	if s.Complete != 1 || s.Timeout != 2 {
		t.Fatalf("unexpected cause counts: %+v", s)
	}
	wantAvg := (30.0 + 42.0 + 36.0) / 3
	if s.AvgWPM != wantAvg {
		t.Fatalf("expected avg %v, got %v", wantAvg, s.AvgWPM)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Games != 0 || s.AvgWPM != 0 || s.BestWPM != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 1, 3, 3}
	got := Resample(values, 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected resample: %v", got)
	}
	same := Resample(values, 10)
	if len(same) != len(values) {
		t.Fatalf("expected passthrough for wide target, got %v", same)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5})
	if len(got) != 3 {
		t.Fatalf("expected 3 cells, got %q", got)
	}
	if strings.Count(got, string(got[0])) != 3 {
		t.Fatalf("expected uniform sparkline, got %q", got)
	}
}

func TestRenderHistoryAlignsColumns(t *testing.T) {
	var b strings.Builder
	if err := RenderHistory(&b, sampleGames()); err != nil {
		t.Fatalf("render history: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestRenderSummaryNoGames(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(b.String(), "No games") {
		t.Fatalf("expected empty notice, got %q", b.String())
	}
}
