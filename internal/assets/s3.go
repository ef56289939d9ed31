package assets

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultUploadTTL bounds how long an issued upload grant stays valid.
const DefaultUploadTTL = 15 * time.Minute

// Config describes the bucket backing media assets. An empty EndpointURL
// targets AWS proper; set it for minio or another S3-compatible store.
type Config struct {
	Bucket      string
	Region      string
	EndpointURL string
	AccessKey   string
	SecretKey   string
	// KeyPrefix namespaces object keys inside the bucket.
	KeyPrefix string
	// PublicBaseURL overrides public URL derivation, e.g. a CDN host.
	PublicBaseURL string
	// UploadTTL overrides DefaultUploadTTL when positive.
	UploadTTL time.Duration
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type objectAPI interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements the asset store contract over an S3-compatible bucket.
type S3Store struct {
	config  Config
	presign presignAPI
	objects objectAPI
	now     func() time.Time
	newID   func() string
}

// NewS3Store connects to the configured bucket.
func NewS3Store(config Config) *S3Store {
	client := s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		if config.EndpointURL != "" {
			o.BaseEndpoint = aws.String(config.EndpointURL)
			o.UsePathStyle = true
		}
		if config.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")
		}
	})
	return newS3Store(config, s3.NewPresignClient(client), client)
}

func newS3Store(config Config, presign presignAPI, objects objectAPI) *S3Store {
	if config.UploadTTL <= 0 {
		config.UploadTTL = DefaultUploadTTL
	}
	return &S3Store{
		config:  config,
		presign: presign,
		objects: objects,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
}

var _ interfaces.AssetStore = (*S3Store)(nil)

// IssueUploadURL mints a fresh asset id and a pre-signed PUT grant for it.
// The uploaded object's extension follows the original file name.
func (s *S3Store) IssueUploadURL(ctx context.Context, fileName string, contentType string) (*interfaces.UploadGrant, error) {
	assetID := s.newID()
	if ext := strings.ToLower(path.Ext(fileName)); ext != "" {
		assetID += ext
	}

	request, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(s.objectKey(assetID)),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.UploadTTL))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "presigned upload issuance failed").
			WithTextCode("ASSET_STORE_UNAVAILABLE")
	}

	return &interfaces.UploadGrant{
		AssetID:   assetID,
		UploadURL: request.URL,
		PublicURL: s.PublicURL(assetID),
		ExpiresAt: s.now().Add(s.config.UploadTTL),
	}, nil
}

// PublicURL derives the serving URL for an asset id without a network call.
func (s *S3Store) PublicURL(assetID string) string {
	key := s.objectKey(assetID)
	if s.config.PublicBaseURL != "" {
		return strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + key
	}
	if s.config.EndpointURL != "" {
		return strings.TrimRight(s.config.EndpointURL, "/") + "/" + s.config.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
}

// Delete removes the object. S3 treats deleting a missing key as success,
// which matches the contract.
func (s *S3Store) Delete(ctx context.Context, assetID string) error {
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.objectKey(assetID)),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "asset delete failed").
			WithTextCode("ASSET_STORE_UNAVAILABLE")
	}
	return nil
}

func (s *S3Store) objectKey(assetID string) string {
	if s.config.KeyPrefix == "" {
		return assetID
	}
	return strings.TrimRight(s.config.KeyPrefix, "/") + "/" + assetID
}
