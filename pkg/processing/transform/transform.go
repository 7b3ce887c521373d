package transform

import (
	"strings"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
)

type (
	Option func(*Transformer)
	// Transformer turns wire session data into staging rows and staging
	// rows into the curated star schema. Pure computation, no warehouse
	// access.
	Transformer struct {
		logger *log.Logger
	}
)

func WithLogger(logger *log.Logger) Option {
	return func(t *Transformer) { t.logger = logger }
}

func NewTransformer(opts ...Option) *Transformer {
	ret := &Transformer{
		logger: log.Default().Named("transform"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// StagingBundle holds one run's extracted tables in memory.
type StagingBundle struct {
	RaceID  string
	Laps    []*model.StagingLap
	Results []*model.StagingResult
	Weather []*model.StagingWeather
}

// CuratedBundle holds all dimension and fact rows of one race.
type CuratedBundle struct {
	Race        *model.DimRace
	Drivers     []*model.DimDriver
	Teams       []*model.DimTeam
	DriverTeams []*model.DriverTeamSeason
	Laps        []*model.FactLap
	Results     []*model.FactResult
	RaceControl []*model.FactRaceControl
	Weather     []*model.FactWeatherMinute
}

// normStr trims and maps empty strings to nil so staging carries NULL
// instead of "".
func normStr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
