package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	bytesSent          atomic.Uint64
	messagesSent       atomic.Uint64
	tickDurationMillis atomic.Int64
	lastBroadcastBytes atomic.Uint64
	activeSessions     atomic.Int64
	debug              bool
}

type telemetrySnapshot struct {
	BytesSent      uint64 `json:"bytesSent"`
	MessagesSent   uint64 `json:"messagesSent"`
	TickDuration   int64  `json:"tickDurationMillis"`
	ActiveSessions int64  `json:"activeSessions"`
}

func newTelemetryCounters() *telemetryCounters {
	t := &telemetryCounters{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *telemetryCounters) RecordBroadcast(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	t.bytesSent.Add(uint64(bytes))
	t.messagesSent.Add(1)
	t.lastBroadcastBytes.Store(uint64(bytes))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
	if t.debug {
		fmt.Printf(
			"[telemetry] tick=%dms bytes=%d totalBytes=%d sessions=%d\n",
			millis,
			t.lastBroadcastBytes.Load(),
			t.bytesSent.Load(),
			t.activeSessions.Load(),
		)
	}
}

func (t *telemetryCounters) SetActiveSessions(count int) {
	if count < 0 {
		count = 0
	}
	t.activeSessions.Store(int64(count))
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:      t.bytesSent.Load(),
		MessagesSent:   t.messagesSent.Load(),
		TickDuration:   t.tickDurationMillis.Load(),
		ActiveSessions: t.activeSessions.Load(),
	}
}
