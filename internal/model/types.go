// Package model defines shared data structures.
package model

import "time"

// GameConfig defines settings for one typing game.
type GameConfig struct {
	Lang        string
	Words       int
	Duration    time.Duration
	ArticlePath string
}

// HistoryConfig defines filters for local history output.
type HistoryConfig struct {
	Lang  string
	Since *time.Time
	Last  int
}

// GameRecord captures a completed game for persistence.
type GameRecord struct {
	SessionID    string
	StartedAt    time.Time
	EndedAt      time.Time
	Lang         string
	Words        int
	WPM          int
	Accuracy     int
	CorrectChars int
	TypedChars   int
	DurationMs   int64
	FinishCause  string
	Submitted    bool
}

// GameAggregate summarizes a stored game for reporting.
type GameAggregate struct {
	GameID     int64
	EndedAt    time.Time
	Lang       string
	WPM        int
	Accuracy   int
	DurationMs int64
	Cause      string
}
