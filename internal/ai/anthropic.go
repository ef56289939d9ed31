package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// DefaultModel is used when the config names none.
const DefaultModel = "claude-haiku-4-5-20251001"

// ErrEmptyCompletion reports a model response with no usable text.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Config holds the Anthropic connection settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxTokens caps completion length; defaults to 1024.
	MaxTokens int64
}

// AnthropicProvider implements the AI contract over the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
	max    int64
}

// NewAnthropic connects a provider.
func NewAnthropic(config Config) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(config.BaseURL, "/")))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	max := config.MaxTokens
	if max <= 0 {
		max = 1024
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
		max:    max,
	}
}

var _ interfaces.AIProvider = (*AnthropicProvider)(nil)

// RewriteContent asks the model to rework section content under an editor
// instruction, preserving the declared content type.
func (p *AnthropicProvider) RewriteContent(ctx context.Context, req interfaces.RewriteRequest) (*interfaces.RewriteResponse, error) {
	system := "You rewrite website section content. Return only the rewritten content, no commentary."
	if req.ContentType != "" {
		system += fmt.Sprintf(" Keep the output valid %s.", req.ContentType)
	}
	prompt := fmt.Sprintf("Instruction: %s\n\nCurrent content:\n%s", req.Instruction, req.CurrentContent)

	text, err := p.complete(ctx, system, []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(prompt),
	})
	if err != nil {
		return nil, err
	}
	return &interfaces.RewriteResponse{Content: text}, nil
}

// DescribeImage analyzes the image at the URL and returns structured
// editorial metadata.
func (p *AnthropicProvider) DescribeImage(ctx context.Context, imageURL string, pageContext string) (*interfaces.ImageDescription, error) {
	system := `You describe website images for editors. Respond with a JSON object: {"alt_text": string, "description": string, "tags": [string], "seo_text": string}. Return only the JSON.`
	prompt := "Describe this image."
	if pageContext != "" {
		prompt += " Page context: " + pageContext
	}

	text, err := p.complete(ctx, system, []anthropic.ContentBlockParamUnion{
		anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: imageURL}),
		anthropic.NewTextBlock(prompt),
	})
	if err != nil {
		return nil, err
	}

	var description interfaces.ImageDescription
	if err := decodeModelJSON(text, &description); err != nil {
		return nil, err
	}
	return &description, nil
}

func (p *AnthropicProvider) complete(ctx context.Context, system string, blocks []anthropic.ContentBlockParamUnion) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.max,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "model completion failed").
			WithTextCode("AI_UNAVAILABLE")
	}

	var full strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			full.WriteString(text.Text)
		}
	}
	text := strings.TrimSpace(full.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
