package main

import (
	"testing"
	"time"
)

func TestTelemetryRecordBroadcast(t *testing.T) {
	tel := newTelemetryCounters()

	tel.RecordBroadcast(100)
	tel.RecordBroadcast(50)
	tel.RecordBroadcast(-10) // clamped, still counts as a message

	snap := tel.Snapshot()
	if snap.BytesSent != 150 {
		t.Fatalf("expected 150 bytes recorded, got %d", snap.BytesSent)
	}
	if snap.MessagesSent != 3 {
		t.Fatalf("expected 3 messages recorded, got %d", snap.MessagesSent)
	}
}

func TestTelemetryTickDurationAndSessions(t *testing.T) {
	tel := newTelemetryCounters()

	tel.RecordTickDuration(12 * time.Millisecond)
	tel.SetActiveSessions(4)

	snap := tel.Snapshot()
	if snap.TickDuration != 12 {
		t.Fatalf("expected 12ms tick duration, got %d", snap.TickDuration)
	}
	if snap.ActiveSessions != 4 {
		t.Fatalf("expected 4 active sessions, got %d", snap.ActiveSessions)
	}

	tel.RecordTickDuration(-5 * time.Millisecond)
	tel.SetActiveSessions(-1)
	snap = tel.Snapshot()
	if snap.TickDuration != 0 || snap.ActiveSessions != 0 {
		t.Fatalf("expected negative values clamped, got %+v", snap)
	}
}
