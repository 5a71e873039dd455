package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Debug("hidden", nil)
	l.Info("shown", Fields{"events": 3})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message should be logged at info level")
	}
}

func TestLoggerJSONShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Error("fetch failed", Fields{"url": "https://karolakvido.cz/"}, errors.New("boom"))

	var e map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if e["level"] != "ERROR" {
		t.Errorf("expected level ERROR, got %v", e["level"])
	}
	if e["message"] != "fetch failed" {
		t.Errorf("expected message 'fetch failed', got %v", e["message"])
	}
	if e["error"] != "boom" {
		t.Errorf("expected error 'boom', got %v", e["error"])
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("fetch.requests")
	m.IncrCounter("fetch.requests")
	m.IncrCounter("events.collected")
	m.RecordTiming("fetch.duration", 100*time.Millisecond)
	m.RecordTiming("fetch.duration", 300*time.Millisecond)

	snapshot := m.Snapshot()

	counters := snapshot["counters"].(map[string]int64)
	if counters["fetch.requests"] != 2 {
		t.Errorf("expected fetch.requests=2, got %d", counters["fetch.requests"])
	}
	if counters["events.collected"] != 1 {
		t.Errorf("expected events.collected=1, got %d", counters["events.collected"])
	}

	timings := snapshot["timings"].(map[string]map[string]string)
	stats, ok := timings["fetch.duration"]
	if !ok {
		t.Fatal("expected fetch.duration timing stats")
	}
	if stats["count"] != "2" {
		t.Errorf("expected count 2, got %s", stats["count"])
	}
	if stats["average"] != "200ms" {
		t.Errorf("expected average 200ms, got %s", stats["average"])
	}
}
