package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// Degrading wraps a provider so rewrite failures return the editor's
// current content unchanged instead of erroring. A broken model must never
// block editing; the failure is logged and the editor keeps working with
// what they had.
type Degrading struct {
	provider interfaces.AIProvider
	logger   interfaces.Logger
}

// NewDegrading wraps the provider. A nil logger drops the failure logs.
func NewDegrading(provider interfaces.AIProvider, logger interfaces.Logger) *Degrading {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Degrading{provider: provider, logger: logger}
}

var _ interfaces.AIProvider = (*Degrading)(nil)

func (d *Degrading) RewriteContent(ctx context.Context, req interfaces.RewriteRequest) (*interfaces.RewriteResponse, error) {
	response, err := d.provider.RewriteContent(ctx, req)
	if err != nil {
		d.logger.Warn("content rewrite failed, returning content unchanged",
			"error", err,
		)
		return &interfaces.RewriteResponse{Content: req.CurrentContent}, nil
	}
	return response, nil
}

// DescribeImage has no prior content to fall back on, so failures surface.
func (d *Degrading) DescribeImage(ctx context.Context, imageURL string, pageContext string) (*interfaces.ImageDescription, error) {
	return d.provider.DescribeImage(ctx, imageURL, pageContext)
}

// decodeModelJSON tolerates the model fencing its JSON answer in markdown
// code blocks or surrounding it with prose.
func decodeModelJSON(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(cleaned[start:end+1]), out)
	}
	return ErrEmptyCompletion
}
