package analyzers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingPrompt is fatal for the run: the harness never substitutes a
// built-in prompt for a missing file.
var ErrMissingPrompt = errors.New("prompt file missing or unreadable")

// Prompt file names inside the prompts directory.
const (
	SystemPromptFile = "system_security_prompt.txt"
	UserPromptFile   = "user_security_prompt.txt"
)

// LoadScanPrompts reads the system and user templates for the structured
// analyzer from dir.
func LoadScanPrompts(dir string) (system, user string, err error) {
	system, err = readPrompt(filepath.Join(dir, SystemPromptFile))
	if err != nil {
		return "", "", err
	}
	user, err = readPrompt(filepath.Join(dir, UserPromptFile))
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

// ResolveToolPrompt verifies that the review-tool prompt selected by name
// exists in dir and returns its absolute path.
func ResolveToolPrompt(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingPrompt, path)
	}
	return filepath.Abs(path)
}

func readPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingPrompt, path)
	}
	return string(data), nil
}
