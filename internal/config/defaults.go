package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds option values preloaded from a YAML file. Hosted option
// tokens on the command line take precedence over file defaults.
type Defaults struct {
	ImageName             string `yaml:"image_name"`
	Kind                  string `yaml:"kind"`
	TargetMethod          string `yaml:"method"`
	MaxAnalysisThreads    int    `yaml:"max_analysis_threads"`
	MaxCompilationThreads int    `yaml:"max_compilation_threads"`
	HistoryFile           string `yaml:"history_file"`
}

// LoadDefaults reads defaults from path. A missing file is not an error when
// required is false, so the conventional default path can simply be absent.
func LoadDefaults(path string, required bool) (Defaults, error) {
	var d Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return d, nil
		}
		return d, fmt.Errorf("read defaults file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return d, nil
}
