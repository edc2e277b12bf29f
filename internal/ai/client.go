// Package ai wraps the text completion provider. All engine services
// consume it through small interfaces so tests can substitute fakes.
package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4oMini

var (
	// ErrNoAPIKey is returned when the provider API key is not configured
	ErrNoAPIKey = errors.New("provider API key not set")
	// ErrNoChoices is returned when the provider responds without content
	ErrNoChoices = errors.New("provider returned no choices")
)

// ChatAPI is the slice of the OpenAI client the wrapper needs.
// *openai.Client satisfies it.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

// UsageRecorder receives token counts after each provider call. Recording
// is best-effort; the wrapper ignores recorder failures.
type UsageRecorder interface {
	Record(ctx context.Context, inputTokens, outputTokens int64)
}

// Client wraps the provider API with the three operations the engine
// uses: free-text completion, streamed completion, and structured
// (JSON) completion.
type Client struct {
	api      ChatAPI
	model    string
	recorder UsageRecorder
}

// Config holds explicit client configuration.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Recorder UsageRecorder
}

// NewClient creates a provider client using defaults.
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a provider client with explicit configuration.
func NewClientWithConfig(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:      openai.NewClientWithConfig(clientCfg),
		model:    model,
		recorder: cfg.Recorder,
	}, nil
}

// NewClientWithAPI creates a client over an existing ChatAPI (for tests).
func NewClientWithAPI(api ChatAPI, model string, recorder UsageRecorder) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model, recorder: recorder}
}

// Complete issues one free-text completion.
func (c *Client) Complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, c.request(system, prompt, temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	c.record(ctx, int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream issues a streamed completion, delivering chunks to sink
// in arrival order. The stream runs to completion or provider error;
// there is no mid-stream cancellation beyond ctx. Returns the full text.
func (c *Client) CompleteStream(ctx context.Context, system, prompt string, temperature float32, sink func(chunk string)) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, c.request(system, prompt, temperature))
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if sink != nil {
			sink(chunk)
		}
	}

	// Streaming responses don't carry usage; approximate from characters.
	c.record(ctx, int64(len(prompt)/4), int64(full.Len()/4))
	return full.String(), nil
}

// CompleteStructured issues a completion expected to contain JSON. The
// raw text is returned; callers own the fail-closed parse.
func (c *Client) CompleteStructured(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, c.request("", prompt, temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	c.record(ctx, int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	return ExtractJSON(resp.Choices[0].Message.Content), nil
}

func (c *Client) request(system, prompt string, temperature float32) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
}

func (c *Client) record(ctx context.Context, input, output int64) {
	if c.recorder == nil {
		return
	}
	// Recording must never delay or fail the completion path.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	c.recorder.Record(recordCtx, input, output)
}

// ExtractJSON strips markdown code fences some models wrap around JSON
// payloads. The result may still be invalid JSON; parsing stays with the
// caller.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
