package service

import (
	"sync/atomic"
	"time"
)

// StoredResult is a scan result with the time it was stored
type StoredResult struct {
	Result   *ScanResult
	StoredAt time.Time
}

// ResultStore holds the most recent scan result for readers such as the HTTP server
type ResultStore struct {
	latest atomic.Pointer[StoredResult]
}

// NewResultStore creates an empty result store
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Store replaces the latest result
func (s *ResultStore) Store(result *ScanResult) {
	if result == nil {
		return
	}
	s.latest.Store(&StoredResult{Result: result, StoredAt: time.Now().UTC()})
}

// Latest returns the most recent result, if any
func (s *ResultStore) Latest() (*StoredResult, bool) {
	stored := s.latest.Load()
	return stored, stored != nil
}
