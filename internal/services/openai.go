// OpenAI-compatible chat completions implementation of [Generator]
//
// Groq serves an OpenAI-compatible API at https://api.groq.com/openai/v1, so the same
// client works for Groq, OpenAI and local proxies.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/heydj/internal/shared"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	openaishared "github.com/openai/openai-go/shared"
)

// OpenAIGenerator implements [Generator] with the openai-go chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator builds a client from the [shared.LLMConfig] section.
//
// Extra request options (e.g. a custom HTTP client in tests) are applied last.
func NewOpenAIGenerator(cfg shared.LLMConfig, extra ...option.RequestOption) (*OpenAIGenerator, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set llm.api_key or %s", shared.ErrMissingCredentials, shared.APIKeyEnv)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: llm.model is required", shared.ErrInvalidConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	opts = append(opts, extra...)

	client := openai.NewClient(opts...)

	return &OpenAIGenerator{client: &client, model: cfg.Model}, nil
}

// Model returns the configured model name.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate sends req.Prompt as a single user message in JSON mode.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openaishared.ResponseFormatJSONObjectParam{},
		},
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &GenerationCallError{Step: req.Step, Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", &GenerationCallError{Step: req.Step, Err: fmt.Errorf("completion returned no choices")}
	}

	return completion.Choices[0].Message.Content, nil
}
