package analyzers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

// LLMOptions configures the structured analyzer.
type LLMOptions struct {
	Endpoint     string // OpenAI-compatible base URL
	Model        string
	APIKey       string
	SystemPrompt string
	UserTemplate string // {filename} and {numbered_code} placeholders
	HTTPClient   *http.Client
}

// LLM sends a line-numbered rendering of the source to a remote
// chat-completions endpoint and decodes the reply as a findings payload.
type LLM struct {
	opts   LLMOptions
	client *http.Client
}

// NewLLM builds the structured analyzer.
func NewLLM(opts LLMOptions) *LLM {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &LLM{opts: opts, client: client}
}

// Analyze reads the source, renders it with line numbers, issues one
// completion request and returns the JSON artifact body.
//
// When the reply carries no parseable findings payload, the returned body
// is still a valid artifact (empty issues, raw reply attached) and the
// error wraps ErrMalformedResponse so the file is recorded as an error.
func (a *LLM) Analyze(ctx context.Context, path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	content, err := a.complete(ctx, buildMessages(a.opts.SystemPrompt, a.opts.UserTemplate, path, string(code)))
	if err != nil {
		return nil, err
	}

	result := schema.StructuredResult{File: filepath.Base(path), Issues: []schema.Finding{}}
	block, ok := extractJSONBlock(content)
	if !ok || json.Unmarshal(block, &result) != nil {
		result.Issues = []schema.Finding{}
		result.Raw = content
		body, merr := marshalArtifact(result)
		if merr != nil {
			return nil, merr
		}
		return body, fmt.Errorf("%w: %s", ErrMalformedResponse, path)
	}
	if result.Issues == nil {
		result.Issues = []schema.Finding{}
	}
	body, err := marshalArtifact(result)
	if err != nil {
		return nil, err
	}
	return body, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *LLM) complete(ctx context.Context, messages []chatMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       a.opts.Model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimRight(a.opts.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.opts.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned %s", resp.Status)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode completion envelope: %v", ErrMalformedResponse, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: completion reply has no choices", ErrMalformedResponse)
	}
	return decoded.Choices[0].Message.Content, nil
}

// buildMessages fills the user template. Placeholders are substituted with
// plain replacement so JSON braces in the template survive intact.
func buildMessages(system, userTemplate, path, code string) []chatMessage {
	user := strings.ReplaceAll(userTemplate, "{filename}", path)
	user = strings.ReplaceAll(user, "{numbered_code}", NumberLines(code))
	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// NumberLines prefixes each physical line with its 1-based number so the
// model can reference exact positions.
func NumberLines(code string) string {
	lines := strings.Split(code, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", i+1, line)
	}
	return b.String()
}

// extractJSONBlock finds the first top-level JSON object in free-form
// text by brace matching, for models that wrap the payload in prose.
func extractJSONBlock(text string) (json.RawMessage, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := json.RawMessage(text[start : i+1])
				if json.Valid(candidate) {
					return candidate, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}

func marshalArtifact(result schema.StructuredResult) ([]byte, error) {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}
	return body, nil
}
