// Package config resolves harness configuration from flags and the
// process environment once at startup. Components receive the resulting
// value explicitly and never read the environment themselves, so tests can
// substitute fixtures.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Defaults substituted when the environment does not say otherwise.
const (
	DefaultEndpoint   = "https://litellm.labs.jb.gg/"
	DefaultModel      = "gpt-4o-mini"
	DefaultPromptsDir = "./prompts"
	DefaultOutputDir  = "./reports"
)

// Config is the immutable per-run configuration.
type Config struct {
	// Structured (LLM) analyzer.
	Endpoint string
	Model    string
	APIKey   string

	// Location-list (review tool) analyzer.
	ToolPath  string
	ToolToken string
	ToolFile  string // optional YAML tool descriptor

	// Prompt resolution.
	PromptsDir string
	PromptFile string // selector for the review-tool prompt

	// Reporting and policy.
	OutputDir   string
	FailOnError bool
}

// Load reads the configuration from viper. Flag bindings and the env
// prefix are established by the CLI before this runs; Load only collects
// values and applies defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Endpoint:    withDefault(v.GetString("endpoint"), DefaultEndpoint),
		Model:       withDefault(v.GetString("model"), DefaultModel),
		APIKey:      v.GetString("api_key"),
		ToolPath:    v.GetString("tool_path"),
		ToolToken:   v.GetString("tool_token"),
		ToolFile:    v.GetString("tool_file"),
		PromptsDir:  withDefault(v.GetString("prompts_dir"), DefaultPromptsDir),
		PromptFile:  withDefault(v.GetString("prompt_file"), "security_prompt.md"),
		OutputDir:   withDefault(v.GetString("output"), DefaultOutputDir),
		FailOnError: true,
	}
	if v.IsSet("fail_on_error") {
		cfg.FailOnError = v.GetBool("fail_on_error")
	}
	return cfg
}

// WarnMissingCredential prints the once-per-run credential warning. The
// request itself will still be attempted and its failure recorded per file.
func (c Config) WarnMissingCredential() {
	if c.APIKey == "" {
		fmt.Fprintln(os.Stderr, "⚠️  API key is not set; analyzer requests will likely fail")
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
