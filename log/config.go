package log

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes per-logger levels loaded from a yaml file.
// Logger names may end with '*' to match hierarchies, for example
//
//	defaultLevel: info
//	loggers:
//	  ingest: debug
//	  "timing*": warn
type Config struct {
	DefaultLevel string            `yaml:"defaultLevel"`
	Loggers      map[string]string `yaml:"loggers"`
}

// LoadConfig reads a logger configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse log config: %w", err)
	}
	return cfg, nil
}

// BuildRules converts the config into zapfilter rules. Named entries are
// emitted in stable order, the default level comes last as catch-all.
func (c *Config) BuildRules() string {
	rules := make([]string, 0, len(c.Loggers)+1)
	names := make([]string, 0, len(c.Loggers))
	for name := range c.Loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rules = append(rules, fmt.Sprintf("%s+:%s", c.Loggers[name], name))
	}
	defLevel := c.DefaultLevel
	if defLevel == "" {
		defLevel = "info"
	}
	rules = append(rules, fmt.Sprintf("%s+:*", defLevel))
	return strings.Join(rules, " ")
}

// MinLevel returns the lowest level mentioned in the config so the core
// does not drop records before the filter sees them.
func (c *Config) MinLevel() Level {
	minLevel, err := ParseLevel(c.DefaultLevel)
	if err != nil {
		minLevel = InfoLevel
	}
	for _, lvlName := range c.Loggers {
		if lvl, err := ParseLevel(lvlName); err == nil && lvl < minLevel {
			minLevel = lvl
		}
	}
	return minLevel
}
