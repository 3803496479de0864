package leaderboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestSubmitSendsAuthorizedScore(t *testing.T) {
	var gotAuth string
	var gotScore Score
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/speed", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotScore))
		_ = json.NewEncoder(w).Encode(topResponse{TopScores: []Entry{{Name: "سعاد", WPM: 82, Accuracy: 97}}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", "tok123", nil)
	entries, err := c.Submit(context.Background(), Score{SessionID: "abc", WPM: 42, Accuracy: 91})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok123", gotAuth)
	require.Equal(t, Score{SessionID: "abc", WPM: 42, Accuracy: 91}, gotScore)
	require.Len(t, entries, 1)
	require.Equal(t, 82, entries[0].WPM)
}

func TestSubmitRequiresToken(t *testing.T) {
	c := New("http://localhost:0/api", "", nil)
	_, err := c.Submit(context.Background(), Score{WPM: 10})
	require.Error(t, err)
}

func TestTopWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/speed", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(topResponse{TopScores: []Entry{{Name: "خالد", WPM: 66}}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", "", nil)
	entries, err := c.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "خالد", entries[0].Name)
}

func TestBest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/speed/top-wpm", r.URL.Path)
		_ = json.NewEncoder(w).Encode(bestResponse{BestWPM: 73})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", "tok", nil)
	best, err := c.Best(context.Background())
	require.NoError(t, err)
	require.Equal(t, 73, best)
}

func TestRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "expired", nil)
	_, err := c.Submit(context.Background(), Score{WPM: 10})
	require.ErrorContains(t, err, "rejected")
}
