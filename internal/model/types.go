// Package model defines shared data structures.
package model

import "time"

// Config defines generation settings.
type Config struct {
	Source    string
	Capacity  int
	PrefixLen int
	Words     int
	Seed      int64
	Width     int
}

// RunStats captures a completed generation run.
type RunStats struct {
	StartedAt  time.Time
	Source     string
	Capacity   int
	PrefixLen  int
	Words      int
	Seed       int64
	SourceLen  int
	Keys       int
	MaxShift   int
	DurationMs int64
	Output     string
}

// RunRecord is a stored run as listed by the history view.
type RunRecord struct {
	ID int64
	RunStats
}
