package metrics

import "testing"

func TestStatsCounters(t *testing.T) {
	s := NewStats()
	s.AddConnection()
	s.AddConnection()
	s.RemoveConnection()
	s.AddMessage()
	s.AddDropped()

	snap := s.Snapshot()
	if snap.TotalConnections != 2 {
		t.Errorf("TotalConnections = %d, want 2", snap.TotalConnections)
	}
	if snap.ActiveConnections != 1 {
		t.Errorf("ActiveConnections = %d, want 1", snap.ActiveConnections)
	}
	if snap.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", snap.TotalMessages)
	}
	if snap.DroppedDeliveries != 1 {
		t.Errorf("DroppedDeliveries = %d, want 1", snap.DroppedDeliveries)
	}
}

func TestActiveConnectionsNeverNegative(t *testing.T) {
	s := NewStats()
	s.RemoveConnection()
	if got := s.Snapshot().ActiveConnections; got != 0 {
		t.Fatalf("ActiveConnections = %d, want 0", got)
	}
}
