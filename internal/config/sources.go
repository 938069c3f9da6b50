package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesConfig is the YAML sources file structure
// sources:
//   - https://...
type SourcesConfig struct {
	Sources []string `yaml:"sources"`
}

// LoadSources reads the configured source websites from a YAML file.
func LoadSources(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no source websites configured in %s", path)
	}
	return cfg.Sources, nil
}
