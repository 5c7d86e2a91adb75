package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := Load(viper.New())

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultPromptsDir, cfg.PromptsDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "security_prompt.md", cfg.PromptFile)
	assert.Empty(t, cfg.APIKey)
	assert.True(t, cfg.FailOnError, "errors flip the exit code unless configured otherwise")
}

func TestLoadReadsExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "https://llm.internal/")
	v.Set("model", "gpt-test")
	v.Set("api_key", "k")
	v.Set("tool_path", "/opt/review.sh")
	v.Set("tool_token", "tok")
	v.Set("prompts_dir", "/etc/prompts")
	v.Set("output", "/tmp/out")
	v.Set("fail_on_error", false)

	cfg := Load(v)
	assert.Equal(t, "https://llm.internal/", cfg.Endpoint)
	assert.Equal(t, "gpt-test", cfg.Model)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "/opt/review.sh", cfg.ToolPath)
	assert.Equal(t, "tok", cfg.ToolToken)
	assert.Equal(t, "/etc/prompts", cfg.PromptsDir)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.False(t, cfg.FailOnError)
}
