// File path: internal/common/log_test.go
package common

import "testing"

func TestLoggerCapturesEntries(t *testing.T) {
	logger := Logger()
	logger.Info("capture check", "key", "value")
	entries := LogEntries()
	if len(entries) == 0 {
		t.Fatal("expected captured entries")
	}
	found := false
	for _, entry := range entries {
		if entry.Message == "capture check" {
			found = true
			if entry.Level != "info" {
				t.Fatalf("unexpected level: %q", entry.Level)
			}
			if entry.Attributes["key"] != "value" {
				t.Fatalf("attributes not captured: %v", entry.Attributes)
			}
		}
	}
	if !found {
		t.Fatal("logged message missing from history")
	}
}

func TestLoggerSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("expected the same logger instance")
	}
}
