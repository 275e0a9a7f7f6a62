// Package monitoring tracks serving statistics and streams them to
// websocket subscribers.
package monitoring

import (
	"sync"
	"time"
)

// Stats accumulates counters for the serving process.
type Stats struct {
	mu               sync.RWMutex
	requestsServed   int64
	cacheHits        int64
	validationErrors int64
	lastPrediction   float64
	lastPredictionAt time.Time
	startTime        time.Time
}

// Snapshot is the JSON view of Stats at one point in time.
type Snapshot struct {
	RequestsServed   int64     `json:"requests_served"`
	CacheHits        int64     `json:"cache_hits"`
	ValidationErrors int64     `json:"validation_errors"`
	LastPrediction   float64   `json:"last_prediction"`
	LastPredictionAt time.Time `json:"last_prediction_at"`
	UptimeSeconds    float64   `json:"uptime_seconds"`
}

// NewStats starts the uptime clock.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordPrediction counts one served prediction.
func (s *Stats) RecordPrediction(value float64, cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestsServed++
	if cached {
		s.cacheHits++
	}
	s.lastPrediction = value
	s.lastPredictionAt = time.Now()
}

// RecordValidationError counts one rejected request.
func (s *Stats) RecordValidationError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validationErrors++
}

// Snapshot returns a consistent copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		RequestsServed:   s.requestsServed,
		CacheHits:        s.cacheHits,
		ValidationErrors: s.validationErrors,
		LastPrediction:   s.lastPrediction,
		LastPredictionAt: s.lastPredictionAt,
		UptimeSeconds:    time.Since(s.startTime).Seconds(),
	}
}
