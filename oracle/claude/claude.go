// Package claude backs the oracle interface with the official
// Anthropic SDK.
package claude

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/sweetpotato0/intakekit/oracle"
)

// Config holds Claude oracle configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns the default Claude configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   2000,
		Temperature: 0.1,
	}
}

// Oracle implements oracle.Oracle on the Anthropic messages API.
type Oracle struct {
	config *Config
	client anthropic.Client
}

// New creates a Claude oracle.
func New(config *Config) *Oracle {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = "claude-3-5-sonnet-20241022"
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Oracle{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Complete implements oracle.Oracle.
func (o *Oracle) Complete(ctx context.Context, req *oracle.Request) (*oracle.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("completion request cannot be nil")
	}

	maxTokens := o.config.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model: anthropic.Model(o.config.Model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens: maxTokens,
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	temperature := o.config.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	if temperature > 0 {
		params.Temperature = param.NewOpt(temperature)
	}

	apiMessage, err := o.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}

	var text string
	for _, content := range apiMessage.Content {
		if content.Type == "text" {
			text = content.Text
		}
	}

	return &oracle.Response{
		Text:  text,
		Model: string(apiMessage.Model),
	}, nil
}
