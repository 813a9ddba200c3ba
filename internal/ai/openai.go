package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider implements TextProvider using OpenAI chat completions.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	prompts *config.Prompts
}

// NewOpenAIProvider creates a new OpenAI text provider with the given API
// key and prompt configuration.
func NewOpenAIProvider(apiKey string, prompts *config.Prompts) *OpenAIProvider {
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		model:   openai.GPT4oMini,
		prompts: prompts,
	}
}

// GenerateDescription produces a short marketing description for a product.
func (p *OpenAIProvider) GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error) {
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

	resp, err := p.createChatCompletionWithRetry(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("OpenAI API returned an empty message")
	}

	return trimQuoted(resp.Choices[0].Message.Content), nil
}

// GenerateTags produces 3-5 search tags for a product.
func (p *OpenAIProvider) GenerateTags(ctx context.Context, req TagsRequest) ([]string, error) {
	sysPrompt := strings.TrimSpace(p.prompts.Catalog.Tags.System)

	userPrompt, err := config.RenderPrompt(p.prompts.Catalog.Tags.User, map[string]interface{}{
		"Name":     req.Name,
		"Category": req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}

	resp, err := p.createChatCompletionWithRetry(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("OpenAI API returned an empty message")
	}

	return parseTagArray(resp.Choices[0].Message.Content)
}

// createChatCompletionWithRetry wraps the chat completion call with backoff
// on retryable API errors.
func (p *OpenAIProvider) createChatCompletionWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return openai.ChatCompletionResponse{}, fmt.Errorf("OpenAI API error: %w", err)
		}

		logger.Get().Warn("OpenAI API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, ctx.Err()
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("OpenAI API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyOpenAIError determines whether an OpenAI API error is retryable.
func classifyOpenAIError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			return true, 2 * time.Second
		case 500, 502, 503:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}

// trimQuoted strips surrounding whitespace and a single pair of wrapping
// double quotes that models sometimes add around short copy.
func trimQuoted(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// parseTagArray extracts a JSON string array from a model response,
// tolerating surrounding prose or code fences. At most five tags are kept.
func parseTagArray(content string) ([]string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no JSON array found in tag response")
	}

	var tags []string
	if err := util.DeserializeFromJSONString(content[start:end+1], &tags); err != nil {
		return nil, fmt.Errorf("failed to parse tag array: %w", err)
	}

	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags, nil
}
