package service

import (
	"sync"
	"time"
)

// ScanStats tracks per-run pipeline counts
type ScanStats struct {
	mu            sync.RWMutex
	StartTime     time.Time
	Duration      time.Duration
	Events        int
	Matched       int
	Unmatched     int
	Skipped       int
	Opportunities int
}

// ScanSummary is an immutable copy of ScanStats
type ScanSummary struct {
	StartTime     time.Time     `json:"start_time"`
	Duration      time.Duration `json:"duration"`
	Events        int           `json:"events"`
	Matched       int           `json:"matched"`
	Unmatched     int           `json:"unmatched"`
	Skipped       int           `json:"skipped"`
	Opportunities int           `json:"opportunities"`
}

// NewScanStats creates a new stats tracker
func NewScanStats(events int) *ScanStats {
	return &ScanStats{
		StartTime: time.Now(),
		Events:    events,
	}
}

// RecordMatch counts a matched or unmatched event
func (s *ScanStats) RecordMatch(matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if matched {
		s.Matched++
	} else {
		s.Unmatched++
	}
}

// RecordSkipped counts an event rejected as invalid
func (s *ScanStats) RecordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Skipped++
}

// Finish records the opportunity count and elapsed time
func (s *ScanStats) Finish(opportunities int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Opportunities = opportunities
	s.Duration = time.Since(s.StartTime)
}

// Summary returns a copy of the current counts
func (s *ScanStats) Summary() ScanSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ScanSummary{
		StartTime:     s.StartTime,
		Duration:      s.Duration,
		Events:        s.Events,
		Matched:       s.Matched,
		Unmatched:     s.Unmatched,
		Skipped:       s.Skipped,
		Opportunities: s.Opportunities,
	}
}
