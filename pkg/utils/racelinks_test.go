package utils

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestBuildWikipediaURL(t *testing.T) {
	tests := []struct {
		name      string
		season    int
		round     int
		eventName string
		want      string
	}{
		{
			"regular event", 2024, 1, "Bahrain Grand Prix",
			"https://en.wikipedia.org/wiki/2024_Bahrain_Grand_Prix",
		},
		{
			"renamed repeat race", 2020, 2, "Austrian Grand Prix",
			"https://en.wikipedia.org/wiki/2020_Styrian_Grand_Prix",
		},
		{
			"second austrian race", 2021, 8, "Austrian Grand Prix",
			"https://en.wikipedia.org/wiki/2021_Styrian_Grand_Prix",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t,
				BuildWikipediaURL(tt.season, tt.round, tt.eventName), tt.want)
		})
	}
}

func TestBuildFormula1URL(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		country   string
		want      string
	}{
		{
			"event slug wins over country", "Las Vegas Grand Prix", "USA",
			"https://www.formula1.com/en/racing/2023/las-vegas",
		},
		{
			"country alias", "British Grand Prix", "UK",
			"https://www.formula1.com/en/racing/2023/great-britain",
		},
		{
			"country fallback", "Bahrain Grand Prix", "Bahrain",
			"https://www.formula1.com/en/racing/2023/bahrain",
		},
		{
			"multi word country", "South African Grand Prix", "South Africa",
			"https://www.formula1.com/en/racing/2023/south-africa",
		},
		{"no slug at all", "Mystery Grand Prix", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t,
				BuildFormula1URL(2023, tt.eventName, tt.country), tt.want)
		})
	}
}
