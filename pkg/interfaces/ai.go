package interfaces

import "context"

// RewriteRequest asks the model to rework a piece of section content.
type RewriteRequest struct {
	CurrentContent string `json:"current_content"`
	Instruction    string `json:"instruction"`
	ContentType    string `json:"content_type,omitempty"`
}

// RewriteResponse carries the reworked content.
type RewriteResponse struct {
	Content string `json:"content"`
}

// ImageDescription is the structured output of image analysis.
type ImageDescription struct {
	AltText     string   `json:"alt_text"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	SEOText     string   `json:"seo_text,omitempty"`
}

// AIProvider abstracts the language model used for editorial assistance.
type AIProvider interface {
	RewriteContent(ctx context.Context, req RewriteRequest) (*RewriteResponse, error)
	DescribeImage(ctx context.Context, imageURL string, context string) (*ImageDescription, error)
}
