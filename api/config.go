package api

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the session configuration, written in HCL.
//
//	snapshot  = "model.json"
//	log_level = "debug"
//
//	pattern "threads" {
//	  expr = "Processes[].Threads[]"
//	}
type Config struct {
	// Snapshot is a path to a JSON model snapshot to load in memory.
	Snapshot string `hcl:"snapshot,optional"`
	// Database is a path to a sqlite model store; takes precedence over
	// Snapshot when both are set.
	Database string `hcl:"database,optional"`
	// Fetch selects the fetch-driven walk by default instead of the
	// cached-only walk.
	Fetch bool `hcl:"fetch,optional"`
	// LogLevel is a logrus level name ("info" when empty).
	LogLevel string `hcl:"log_level,optional"`
	// Patterns are named, reusable pattern expressions.
	Patterns []SavedPattern `hcl:"pattern,block"`
}

// SavedPattern binds a name to a pattern expression so queries can refer to
// it by name.
type SavedPattern struct {
	Name string `hcl:"name,label"`
	Expr string `hcl:"expr"`
}

// LoadConfig reads and decodes an HCL config file.
func LoadConfig(file string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(file, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", file, err)
	}
	return &cfg, nil
}

// ParseConfig decodes HCL config source, using filename for diagnostics.
func ParseConfig(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	return &cfg, nil
}
