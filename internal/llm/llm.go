// Package llm wraps the chat completions client used by the chat skill.
package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	api         openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// Reply holds the model output plus the round-trip latency for the
// timing log.
type Reply struct {
	Text string
	Ms   int64
}

func (c *Client) Chat(ctx context.Context, system, userText string) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t0 := time.Now()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(userText),
		},
		Model:       openai.ChatModel(c.model),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("no choices in response")
	}

	ms := time.Since(t0).Milliseconds()
	log.Debug("llm reply", "model", c.model, "ms", ms)

	return Reply{Text: resp.Choices[0].Message.Content, Ms: ms}, nil
}
