// Package llm holds the Azure OpenAI collaborators of the extraction
// pipeline: form-type identification, per-page knowledge-base extraction,
// and the final field-mapping call whose output feeds region resolution.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/fieldlens/fieldlens/internal/mapping"
	"github.com/fieldlens/fieldlens/internal/match"
)

const (
	defaultAPIVersion   = "2024-06-01"
	formTypeMaxTokens   = 50
	extractionMaxTokens = 4000
	unknownFormType     = "Unknown"
)

// Client wraps an Azure OpenAI deployment used for all chat calls.
type Client struct {
	client     openai.Client
	deployment string
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	apiVersion string
	extraOpts  []option.RequestOption
}

// WithAPIVersion overrides the Azure OpenAI API version.
func WithAPIVersion(version string) ClientOption {
	return func(c *clientConfig) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithRequestOptions appends raw request options to the underlying client,
// mainly for tests that redirect the base URL.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *clientConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewClient creates a client against an Azure OpenAI endpoint and deployment.
func NewClient(endpoint, apiKey, deployment string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("azure openai endpoint must be configured")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("azure openai api key must be configured")
	}
	if deployment == "" {
		return nil, fmt.Errorf("azure openai deployment must be configured")
	}

	cfg := clientConfig{apiVersion: defaultAPIVersion}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []option.RequestOption{
		azure.WithEndpoint(endpoint, cfg.apiVersion),
		azure.WithAPIKey(apiKey),
	}
	clientOpts = append(clientOpts, cfg.extraOpts...)

	return &Client{
		client:     openai.NewClient(clientOpts...),
		deployment: deployment,
	}, nil
}

// IdentifyFormType classifies a document from its first page's OCR text.
// Empty input short-circuits to "Unknown" without a model call.
func (c *Client) IdentifyFormType(ctx context.Context, ocrText string) (string, error) {
	if strings.TrimSpace(ocrText) == "" {
		return unknownFormType, nil
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(formTypeSystemPrompt),
			openai.UserMessage(formTypePrompt(ocrText)),
		},
		MaxTokens: openai.Int(formTypeMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("form type identification failed: %w", err)
	}
	content := completionContent(completion)
	if content == "" {
		return unknownFormType, nil
	}
	return strings.TrimSpace(content), nil
}

// PageInput is one page's material for knowledge-base extraction.
type PageInput struct {
	OCRText string
	// ImageBase64 is the page rendered as a base64 JPEG, without the data
	// URL prefix.
	ImageBase64 string
}

// ExtractPage runs the hierarchical extraction over one page, optionally
// seeded with the previous page's extraction to keep multi-page documents
// coherent. It returns the model's raw extraction content.
func (c *Client) ExtractPage(ctx context.Context, formType string, page PageInput, previousPageSummary string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(extractionPrompt(formType, page.OCRText, previousPageSummary)),
	}
	if page.ImageBase64 != "" {
		parts = append(parts, imagePart(page.ImageBase64))
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(documentSystemPrompt(formType)),
			openai.UserMessage(parts),
		},
		MaxTokens: openai.Int(extractionMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("page extraction failed: %w", err)
	}
	return completionContent(completion), nil
}

// MapFields runs the final mapping call over the accumulated knowledge base
// and returns the extracted values keyed by JSON tag. Page images, when
// provided, accompany the text so the model can resolve layout ambiguity.
func (c *Client) MapFields(ctx context.Context, set mapping.Set, formType, knowledgeBase string, imagesBase64 []string) (map[string]match.FieldValue, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(mappingPrompt(set, formType, knowledgeBase)),
	}
	for _, img := range imagesBase64 {
		parts = append(parts, imagePart(img))
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(documentSystemPrompt(formType)),
			openai.UserMessage(parts),
		},
		MaxTokens: openai.Int(extractionMaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("field mapping failed: %w", err)
	}

	fields, err := ParseExtraction(completionContent(completion), set)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func imagePart(base64JPEG string) openai.ChatCompletionContentPartUnionParam {
	return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
		URL: "data:image/jpeg;base64," + base64JPEG,
	})
}

func completionContent(completion *openai.ChatCompletion) string {
	if completion == nil || len(completion.Choices) == 0 {
		return ""
	}
	return completion.Choices[0].Message.Content
}
