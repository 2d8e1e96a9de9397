// Package config loads the arena's two configuration surfaces: the YAML
// server config (port, logging, interpreter path) and the TOML resource
// caps the executor enforces per run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Server is the top-level server config, loaded from the arena.yaml file
// named by the ARENA_CONFIG environment variable. It takes the place of
// the teacher's unimplemented "-c, --config" flag, which its doc comment
// (cmd/boxed-server) named but never wired up; there is no such flag here.
type Server struct {
	Port             string `yaml:"port"`
	LogLevel         string `yaml:"log_level"`
	InterpreterPath  string `yaml:"interpreter_path"`
	BlobStoreDir     string `yaml:"blob_store_dir"`
	TournamentPeriod string `yaml:"tournament_period"` // parsed with time.ParseDuration
}

// DefaultServer mirrors the teacher's hardcoded server defaults.
func DefaultServer() Server {
	return Server{
		Port:             "8080",
		LogLevel:         "info",
		InterpreterPath:  "./interpreter.wasm",
		BlobStoreDir:     "./data/blobs",
		TournamentPeriod: "30s",
	}
}

// LoadServer reads and parses a YAML server config file. Fields absent
// from the file keep their DefaultServer values; a field set explicitly
// in the file (even to an empty value) replaces the default.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}

	loaded := DefaultServer()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return loaded, nil
}
