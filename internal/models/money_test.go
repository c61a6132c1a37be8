package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyJSONRoundsToTwoPlaces(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`12.345`), &m); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"12.35"` {
		t.Fatalf("unexpected money json: %s", out)
	}

	if err := json.Unmarshal([]byte(`"-1.5"`), &m); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if !m.IsNegative() {
		t.Fatalf("expected negative amount")
	}
}

func TestCoordinateKeepsSixPlaces(t *testing.T) {
	var c Coordinate
	if err := json.Unmarshal([]byte(`40.71277761`), &c); err != nil {
		t.Fatalf("unmarshal coordinate failed: %v", err)
	}
	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal coordinate failed: %v", err)
	}
	if string(out) != `"40.712778"` {
		t.Fatalf("unexpected coordinate json: %s", out)
	}
	if !c.InRange(90) {
		t.Fatalf("expected latitude in range")
	}
	if NewCoordinate(-190.5).InRange(180) {
		t.Fatalf("expected longitude out of range")
	}
}

func TestDecodeFixedRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"twelve"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
	if err := json.Unmarshal([]byte(`null`), &m); err != nil || !m.IsZero() {
		t.Fatalf("null should decode to zero, got %v err=%v", m, err)
	}
}

func TestMoneyScanRounds(t *testing.T) {
	var m Money
	if err := m.Scan("3.14159"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if m.String() != "3.14" {
		t.Fatalf("expected 3.14, got %s", m.String())
	}
	v, err := m.Value()
	if err != nil || v != "3.14" {
		t.Fatalf("unexpected driver value %v err=%v", v, err)
	}
}
