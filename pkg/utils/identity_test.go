package utils

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestMakeRaceID(t *testing.T) {
	tests := []struct {
		name    string
		season  int
		round   int
		session string
		want    string
	}{
		{"season opener", 2024, 1, "R", "2024_01_R"},
		{"round is zero padded", 2023, 9, "R", "2023_09_R"},
		{"two digit round", 2024, 22, "R", "2024_22_R"},
		{"session type is upper cased", 2024, 1, "r", "2024_01_R"},
		{"sprint", 2024, 5, "S", "2024_05_S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, MakeRaceID(tt.season, tt.round, tt.session), tt.want)
		})
	}
}

func TestStableIDIgnoresFormattingNoise(t *testing.T) {
	canonical := StableID("team", "Red Bull Racing")
	assert.Equal(t, StableID("team", "  red bull racing  "), canonical)
	assert.Equal(t, StableID("team", "RED BULL RACING"), canonical)
	assert.Assert(t, StableID("team", "McLaren") != canonical)
	// same value under another namespace gets another ID
	assert.Assert(t, StableID("drv", "Red Bull Racing") != canonical)
}

func TestStableIDPinned(t *testing.T) {
	// IDs are persisted, they must never change between releases
	assert.Equal(t, DriverID("VER"), "drv_4db117d7c320069e")
	assert.Equal(t, TeamID("Red Bull Racing"), "team_5164961323641924")
}
