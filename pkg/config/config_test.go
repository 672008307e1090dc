package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ADSReceiverTCP.ReconnectDelaySeconds != 5.0 {
		t.Errorf("expected default reconnect delay 5.0, got %v", cfg.ADSReceiverTCP.ReconnectDelaySeconds)
	}
	if cfg.AISSenderTCP.Port != 4002 {
		t.Errorf("expected default AIS sender port 4002, got %d", cfg.AISSenderTCP.Port)
	}
	if cfg.StatusHTTP.Enabled {
		t.Error("expected status HTTP disabled by default")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ADSReceiverTCP.Host != "localhost" {
		t.Errorf("expected default host, got %s", cfg.ADSReceiverTCP.Host)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")

	want := DefaultConfig()
	want.ADSReceiverTCP.Host = "feed.example.com"
	want.ADSReceiverTCP.Port = 30005
	want.AISSenderTCP.Port = 4010

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.ADSReceiverTCP.Host != want.ADSReceiverTCP.Host {
		t.Errorf("host = %s, want %s", got.ADSReceiverTCP.Host, want.ADSReceiverTCP.Host)
	}
	if got.ADSReceiverTCP.Port != want.ADSReceiverTCP.Port {
		t.Errorf("port = %d, want %d", got.ADSReceiverTCP.Port, want.ADSReceiverTCP.Port)
	}
	if got.AISSenderTCP.Port != want.AISSenderTCP.Port {
		t.Errorf("sender port = %d, want %d", got.AISSenderTCP.Port, want.AISSenderTCP.Port)
	}
}

func TestLoadZeroReconnectDelayFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	if err := os.WriteFile(path, []byte("ads_receiver_tcp:\n  host: x\n  port: 1\n  reconnect_delay_seconds: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ADSReceiverTCP.ReconnectDelaySeconds != 5.0 {
		t.Errorf("expected fallback reconnect delay 5.0, got %v", cfg.ADSReceiverTCP.ReconnectDelaySeconds)
	}
}
