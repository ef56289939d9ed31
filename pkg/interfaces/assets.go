package interfaces

import (
	"context"
	"time"
)

// UploadGrant is a short-lived permission to upload one object directly to
// the asset bucket, bypassing the API server.
type UploadGrant struct {
	AssetID   string    `json:"asset_id"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AssetStore abstracts the object storage backing media assets.
type AssetStore interface {
	// IssueUploadURL mints a pre-signed PUT grant for a new object.
	IssueUploadURL(ctx context.Context, fileName string, contentType string) (*UploadGrant, error)
	// PublicURL resolves the serving URL for a stored asset id.
	PublicURL(assetID string) string
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, assetID string) error
}
