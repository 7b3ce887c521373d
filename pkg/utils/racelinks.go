package utils

import (
	"fmt"
	"strings"
)

type raceKey struct {
	season int
	round  int
}

// Most event names map to Wikipedia via "{season}_{name_with_underscores}".
// Only renamed events (COVID era one-offs, second home races) differ.
//
//nolint:gochecknoglobals // lookup table
var wikiOverrides = map[raceKey]string{
	{2020, 2}:  "2020_Styrian_Grand_Prix",
	{2020, 5}:  "2020_70th_Anniversary_Grand_Prix",
	{2020, 9}:  "2020_Tuscan_Grand_Prix",
	{2020, 11}: "2020_Eifel_Grand_Prix",
	{2020, 16}: "2020_Sakhir_Grand_Prix",
	{2021, 8}:  "2021_Styrian_Grand_Prix",
}

// BuildWikipediaURL returns the Wikipedia article URL for a race.
func BuildWikipediaURL(season, round int, eventName string) string {
	if override, ok := wikiOverrides[raceKey{season, round}]; ok {
		return "https://en.wikipedia.org/wiki/" + override
	}
	slug := strings.ReplaceAll(fmt.Sprintf("%d %s", season, eventName), " ", "_")
	return "https://en.wikipedia.org/wiki/" + slug
}

// Events whose formula1.com slug is not derived from the host country.
//
//nolint:gochecknoglobals // lookup table
var eventSlugs = map[string]string{
	"Miami":            "miami",
	"Las Vegas":        "las-vegas",
	"Emilia Romagna":   "emilia-romagna",
	"Styrian":          "styria",
	"Tuscan":           "tuscany",
	"Eifel":            "eifel",
	"Sakhir":           "sakhir",
	"70th Anniversary": "70th-anniversary",
	"São Paulo":        "brazil",
	"Mexico City":      "mexico",
	"Abu Dhabi":        "united-arab-emirates",
}

//nolint:gochecknoglobals // lookup table
var countrySlugs = map[string]string{
	"UK":                   "great-britain",
	"United Kingdom":       "great-britain",
	"Great Britain":        "great-britain",
	"USA":                  "united-states",
	"United States":        "united-states",
	"UAE":                  "united-arab-emirates",
	"United Arab Emirates": "united-arab-emirates",
	"Saudi Arabia":         "saudi-arabia",
}

// BuildFormula1URL returns the race page on formula1.com, or "" when no
// slug can be derived. Pattern: /en/racing/{season}/{slug}.
func BuildFormula1URL(season int, eventName, country string) string {
	slug := ""
	for key, s := range eventSlugs {
		if strings.Contains(eventName, key) {
			slug = s
			break
		}
	}
	if slug == "" {
		if s, ok := countrySlugs[country]; ok {
			slug = s
		} else if country != "" {
			slug = strings.ToLower(strings.ReplaceAll(country, " ", "-"))
		}
	}
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("https://www.formula1.com/en/racing/%d/%s", season, slug)
}
