package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	TimingURL          string // base URL of the timing archive API
	SessionType        string // session type to work on (R=race, S=sprint, Q=qualifying)
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogConfig          string // zapfilter rules applied to the logger
	MigrationSourceURL string // location of migration files
	MetricsAddr        string // listen addr for prometheus metrics (empty: disabled)
)
