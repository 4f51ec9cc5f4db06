package models

import (
	"testing"
)

func TestNormalizeKeyPart(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Maria  Sakkari ", "maria sakkari"},
		{"Alcaraz/Garfia", "alcaraz garfia"},
		{"A|B", "a b"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		result := normalizeKeyPart(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeKeyPart(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestRecordID_OrderIndependence(t *testing.T) {
	id1 := RecordID(TierT2, "Anna Bondar", "Sara Errani", "ITF T2 CityX")
	id2 := RecordID(TierT2, "Sara Errani", "Anna Bondar", "ITF T2 CityX")

	if id1 != id2 {
		t.Errorf("RecordID should be order-independent over participants:\n  A,B: %s\n  B,A: %s", id1, id2)
	}
}

func TestRecordID_NormalizesWhitespace(t *testing.T) {
	id1 := RecordID(TierT3, "Anna  Bondar", "Sara Errani", "ITF T3 CityY")
	id2 := RecordID(TierT3, " anna bondar ", "sara errani", "itf t3 cityy")

	if id1 != id2 {
		t.Errorf("RecordID should normalize case and whitespace:\n  %s\n  %s", id1, id2)
	}
}

func TestRecordID_DistinguishesFixtures(t *testing.T) {
	tests := []struct {
		name  string
		tier2 Tier
		a2    string
		b2    string
		t2    string
	}{
		{"different tier", TierT1, "Anna Bondar", "Sara Errani", "ITF T2 CityX"},
		{"different participant", TierT2, "Anna Bondar", "Elena Pridankina", "ITF T2 CityX"},
		{"different tournament", TierT2, "Anna Bondar", "Sara Errani", "ITF T2 CityZ"},
	}

	base := RecordID(TierT2, "Anna Bondar", "Sara Errani", "ITF T2 CityX")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := RecordID(tt.tier2, tt.a2, tt.b2, tt.t2)
			if other == base {
				t.Errorf("expected distinct IDs, both were %s", base)
			}
		})
	}
}
