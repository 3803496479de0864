package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/obaydah/miftah/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "miftah.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRecord(i int, lang string, wpm int) model.GameRecord {
	start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
	end := start.Add(time.Minute)
	return model.GameRecord{
		SessionID:    uuid.NewString(),
		StartedAt:    start,
		EndedAt:      end,
		Lang:         lang,
		Words:        60,
		WPM:          wpm,
		Accuracy:     95,
		CorrectChars: wpm * 5,
		TypedChars:   wpm*5 + 10,
		DurationMs:   end.Sub(start).Milliseconds(),
		FinishCause:  "timeout",
	}
}

func TestInsertAndListGames(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i, wpm := range []int{30, 45, 38} {
		if _, err := st.InsertGame(ctx, testRecord(i, "ar", wpm)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
	if _, err := st.InsertGame(ctx, testRecord(3, "en", 70)); err != nil {
		t.Fatalf("insert game: %v", err)
	}

	games, err := st.ListGames(ctx, model.HistoryConfig{Lang: "ar"})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 ar games, got %d", len(games))
	}
	if games[0].WPM != 30 || games[2].WPM != 38 {
		t.Fatalf("unexpected ordering: %+v", games)
	}

	last, err := st.ListGames(ctx, model.HistoryConfig{Lang: "ar", Last: 2})
	if err != nil {
		t.Fatalf("list last games: %v", err)
	}
	if len(last) != 2 || last[0].WPM != 45 {
		t.Fatalf("expected last 2 games starting at wpm 45, got %+v", last)
	}
}

func TestBestWPM(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.BestWPM(ctx, ""); err != nil || ok {
		t.Fatalf("expected no best on empty store, got ok=%v err=%v", ok, err)
	}

	for i, wpm := range []int{30, 52, 41} {
		if _, err := st.InsertGame(ctx, testRecord(i, "ar", wpm)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}

	best, ok, err := st.BestWPM(ctx, "ar")
	if err != nil || !ok {
		t.Fatalf("best wpm: ok=%v err=%v", ok, err)
	}
	if best != 52 {
		t.Fatalf("expected best 52, got %d", best)
	}
	if _, ok, _ := st.BestWPM(ctx, "en"); ok {
		t.Fatal("expected no en best")
	}
}

func TestMarkSubmitted(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec := testRecord(0, "ar", 44)
	if _, err := st.InsertGame(ctx, rec); err != nil {
		t.Fatalf("insert game: %v", err)
	}
	if err := st.MarkSubmitted(ctx, rec.SessionID); err != nil {
		t.Fatalf("mark submitted: %v", err)
	}

	var submitted int
	row := st.db.QueryRowContext(ctx, `SELECT submitted FROM games WHERE session_id = ?`, rec.SessionID)
	if err := row.Scan(&submitted); err != nil {
		t.Fatalf("scan submitted: %v", err)
	}
	if submitted != 1 {
		t.Fatalf("expected submitted=1, got %d", submitted)
	}
}

func TestSinceFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := st.InsertGame(ctx, testRecord(i, "ar", 30+i)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
	since := time.Unix(0, 0).Add(2 * time.Minute)
	games, err := st.ListGames(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games since cutoff, got %d", len(games))
	}
}
