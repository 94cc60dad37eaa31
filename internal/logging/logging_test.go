package logging

import "testing"

func TestNew(t *testing.T) {
	log, err := New("debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Error("debug level should be enabled")
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	log, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug level should be disabled at the default level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("shouting"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
