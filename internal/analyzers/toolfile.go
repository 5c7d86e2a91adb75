package analyzers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ToolFile is an optional YAML descriptor for the external review tool,
// kept alongside the repository so runs don't need the full environment.
// Explicit environment values take precedence over the descriptor.
type ToolFile struct {
	Path       string   `yaml:"path"`
	Token      string   `yaml:"token"`
	PromptFile string   `yaml:"prompt_file"`
	ResultFile string   `yaml:"result_file"`
	ExtraArgs  []string `yaml:"extra_args"`
}

// LoadToolFile parses a tool descriptor.
func LoadToolFile(path string) (*ToolFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool file: %w", err)
	}
	var tf ToolFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse tool file %s: %w", path, err)
	}
	return &tf, nil
}

// Merge overlays non-empty environment-derived values onto the descriptor
// and returns the effective review tool options (prompt path excluded).
func (tf *ToolFile) Merge(path, token string) ReviewToolOptions {
	opts := ReviewToolOptions{
		Path:       tf.Path,
		Token:      tf.Token,
		ResultFile: tf.ResultFile,
		ExtraArgs:  tf.ExtraArgs,
	}
	if path != "" {
		opts.Path = path
	}
	if token != "" {
		opts.Token = token
	}
	return opts
}
