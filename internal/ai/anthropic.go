package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/logger"
	"go.uber.org/zap"
)

// AnthropicProvider implements TextProvider using Claude. Selected via the
// TEXT_PROVIDER env variable as an alternative to OpenAI.
type AnthropicProvider struct {
	client  anthropic.Client
	model   anthropic.Model
	prompts *config.Prompts
}

// NewAnthropicProvider creates a new AnthropicProvider with the given API
// key and prompt configuration. Product copy is a cheap task, so the Haiku
// model is used.
func NewAnthropicProvider(apiKey string, prompts *config.Prompts) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client:  client,
		model:   anthropic.Model("claude-haiku-4-5-20251001"),
		prompts: prompts,
	}
}

// GenerateDescription produces a short marketing description for a product.
func (p *AnthropicProvider) GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error) {
	sysPrompt, err := config.RenderPrompt(p.prompts.Catalog.Description.System, map[string]interface{}{
		"Language": req.Language,
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	userPrompt, err := config.RenderPrompt(p.prompts.Catalog.Description.User, map[string]interface{}{
		"Name":     req.Name,
		"Category": req.Category,
		"Price":    req.Price,
		"Quantity": req.Quantity,
	})
	if err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}

	resp, err := p.createMessageWithRetry(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: sysPrompt},
		},
		Messages: []anthropic.MessageParam{
			newUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", err
	}

	text, err := extractTextContent(resp)
	if err != nil {
		return "", err
	}
	return trimQuoted(text), nil
}

// GenerateTags produces 3-5 search tags for a product.
func (p *AnthropicProvider) GenerateTags(ctx context.Context, req TagsRequest) ([]string, error) {
	userPrompt, err := config.RenderPrompt(p.prompts.Catalog.Tags.User, map[string]interface{}{
		"Name":     req.Name,
		"Category": req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}

	resp, err := p.createMessageWithRetry(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: p.prompts.Catalog.Tags.System},
		},
		Messages: []anthropic.MessageParam{
			newUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, err
	}

	text, err := extractTextContent(resp)
	if err != nil {
		return nil, err
	}
	return parseTagArray(text)
}

// newUserMessage creates a user message param with the given content blocks.
func newUserMessage(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}
}

// createMessageWithRetry wraps the Claude API call with exponential backoff.
func (p *AnthropicProvider) createMessageWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const maxRetries = 5
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyAnthropicError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		logger.Get().Warn("claude API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		backoff := waitTime * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("claude API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyAnthropicError determines whether to retry and the base wait duration.
func classifyAnthropicError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return true, 2 * time.Second
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}

// extractTextContent returns the concatenated text blocks from a Claude response.
func extractTextContent(msg *anthropic.Message) (string, error) {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", errors.New("no text content in Claude response")
	}
	return text, nil
}
