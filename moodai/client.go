// Package moodai provides an HTTP client for the multimodal inference server
// used by the image-conditioned seed policy. The server speaks the
// OpenAI-compatible chat completions protocol and receives the playlist cover
// image as a base64 data URI.
package moodai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds inference server configuration.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client communicates with the inference server.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new inference client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// PickSeeds submits the cover image together with the candidate artist names
// and the genre vocabulary, and returns the model's single-line answer:
// three of the supplied artist names followed by two genre tags, comma
// separated. The call is made at most once; there are no retries.
func (c *Client) PickSeeds(ctx context.Context, imageJPEG []byte, artistNames []string, genres []string) (string, error) {
	prompt := fmt.Sprintf(
		"Look at this photo and pick the music that matches its mood.\n"+
			"Choose exactly 3 artists from this list, copied verbatim: %s.\n"+
			"Choose exactly 2 genres from this list: %s.\n"+
			"Answer with a single comma-separated line of the 3 artist names followed by the 2 genres. No other text.",
		strings.Join(artistNames, ", "), strings.Join(genres, ", "))

	payload := chatRequest{
		Model:     c.config.Model,
		MaxTokens: 100,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type: "image_url",
					ImageURL: &imageURL{
						URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageJPEG),
					},
				},
				{
					Type: "text",
					Text: prompt,
				},
			},
		}},
	}

	var response chatResponse
	if err := c.sendRequest(ctx, c.config.BaseURL+"/v1/chat/completions", payload, &response); err != nil {
		return "", err
	}

	if response.Error != nil {
		return "", fmt.Errorf("inference error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion in inference response")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// sendRequest sends a JSON request and decodes the response.
func (c *Client) sendRequest(ctx context.Context, url string, payload any, response any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("inference server error: %s - %s", resp.Status, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
