package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Fatalf("unexpected address %s", cfg.Server.Address())
	}
	if cfg.Shipment.TrackingPrefix != "TN" || cfg.Shipment.TrackingDigits != 10 {
		t.Fatalf("unexpected tracking defaults: %+v", cfg.Shipment)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("expected default queue weights, got %v", cfg.Queue.Queues)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := []byte("server:\n  port: \"9090\"\nshipment:\n  tracking_prefix: LR\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("SHIPMENT_TRACKING_TTL_SECONDS", "30")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Shipment.TrackingPrefix != "LR" {
		t.Fatalf("file values not applied: %+v %+v", cfg.Server, cfg.Shipment)
	}
	if cfg.Shipment.TrackingTTLSeconds != 30 {
		t.Fatalf("env override not applied, got %d", cfg.Shipment.TrackingTTLSeconds)
	}
	if cfg.JWT.Issuer != "logiroute" {
		t.Fatalf("defaults should fill missing keys, got %q", cfg.JWT.Issuer)
	}
}

func TestLoadFromRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}
