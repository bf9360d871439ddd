package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAIDisabled is returned when no API key is configured.
var ErrAIDisabled = errors.New("ai features are not configured")

// AIService talks to an OpenAI-compatible chat completions endpoint
// (Groq in production). Prompts are deliberately small: one system
// instruction, one user message, plain-text line-based output.
type AIService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewAIService creates an AI service. An empty apiKey yields a
// disabled service whose calls return ErrAIDisabled.
func NewAIService(baseURL, apiKey, model string) *AIService {
	return &AIService{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// IsEnabled reports whether AI calls can be made
func (s *AIService) IsEnabled() bool {
	return s.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one chat completion request and returns the text of
// the first choice.
func (s *AIService) complete(ctx context.Context, system, user string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAIDisabled
	}

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// SplitTask asks the model to break one task into 2-5 smaller steps
func (s *AIService) SplitTask(ctx context.Context, title string) ([]string, error) {
	const system = "You break a single task into 2-5 smaller concrete steps. " +
		"Reply with one step per line, no numbering, no extra text."

	out, err := s.complete(ctx, system, title)
	if err != nil {
		return nil, err
	}
	return parseLines(out, 5), nil
}

// ParseTasks asks the model to extract task titles from free text
func (s *AIService) ParseTasks(ctx context.Context, text string) ([]string, error) {
	const system = "You extract actionable task titles from free-form text. " +
		"Reply with one task per line, no numbering, no extra text."

	out, err := s.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}
	return parseLines(out, 10), nil
}

// parseLines cleans model output into at most max non-empty lines,
// stripping the list markers models add anyway.
func parseLines(out string, max int) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}
