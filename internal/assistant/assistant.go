package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	model          = "gpt-4o-mini"
	systemPrompt   = "You are a helpful voice assistant for an astrology app."
)

var ErrEmptyMessage = errors.New("message is required")

// Chatter answers a single user message.
type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

// OpenAIClient forwards messages to the chat completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func NewOpenAIClientWithBaseURL(apiKey, baseURL string) *OpenAIClient {
	client := NewOpenAIClient(apiKey)
	client.baseURL = baseURL
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Chat(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", ErrEmptyMessage
	}
	payload, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI error: %s", body)
	}
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "Sorry, I have no response.", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// EchoClient is the canned fallback used when no model credential is
// configured, so the feature degrades instead of failing.
type EchoClient struct{}

func NewEchoClient() EchoClient {
	return EchoClient{}
}

func (EchoClient) Chat(_ context.Context, message string) (string, error) {
	if message == "" {
		return "", ErrEmptyMessage
	}
	return fmt.Sprintf("You said: \"%s\". (AI offline: set OPENAI_API_KEY to enable real responses)", message), nil
}
