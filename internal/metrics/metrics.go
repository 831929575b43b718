// Package metrics tracks server-level counters. All fields are updated
// atomically so hot paths never take a lock.
package metrics

import (
	"sync/atomic"
	"time"
)

type Stats struct {
	totalConnections  atomic.Int64
	activeConnections atomic.Int64
	totalMessages     atomic.Int64
	droppedDeliveries atomic.Int64
	started           time.Time
}

func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) AddConnection() {
	s.totalConnections.Add(1)
	s.activeConnections.Add(1)
}

func (s *Stats) RemoveConnection() {
	if v := s.activeConnections.Add(-1); v < 0 {
		s.activeConnections.Store(0)
	}
}

func (s *Stats) AddMessage() { s.totalMessages.Add(1) }
func (s *Stats) AddDropped() { s.droppedDeliveries.Add(1) }

type Snapshot struct {
	TotalConnections  int64   `json:"totalConnections"`
	ActiveConnections int64   `json:"activeConnections"`
	TotalMessages     int64   `json:"totalMessages"`
	DroppedDeliveries int64   `json:"droppedDeliveries"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		TotalConnections:  s.totalConnections.Load(),
		ActiveConnections: s.activeConnections.Load(),
		TotalMessages:     s.totalMessages.Load(),
		DroppedDeliveries: s.droppedDeliveries.Load(),
		UptimeSeconds:     time.Since(s.started).Seconds(),
	}
}
