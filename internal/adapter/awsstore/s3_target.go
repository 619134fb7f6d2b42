package awsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"blog-publisher/internal/domain"
	"blog-publisher/internal/render"
)

// S3API is the slice of the S3 client the target uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// CloudFrontAPI is the slice of the CloudFront client the target uses.
type CloudFrontAPI interface {
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// S3Target publishes the post index, rendered pages, and site
// artifacts to an S3 bucket fronted by CloudFront.
type S3Target struct {
	s3Client       S3API
	cfClient       CloudFrontAPI
	bucket         string
	indexKey       string
	distributionID string
	renderer       *render.SiteRenderer
	now            func() time.Time
	logger         *slog.Logger
}

// NewS3Target builds an S3 publish target. distributionID may be empty,
// in which case Invalidate is a no-op.
func NewS3Target(s3Client S3API, cfClient CloudFrontAPI, bucket, indexKey, distributionID string, renderer *render.SiteRenderer, logger *slog.Logger) *S3Target {
	return &S3Target{
		s3Client:       s3Client,
		cfClient:       cfClient,
		bucket:         bucket,
		indexKey:       indexKey,
		distributionID: distributionID,
		renderer:       renderer,
		now:            time.Now,
		logger:         logger,
	}
}

func (t *S3Target) Name() string { return "s3" }

// ReadIndex fetches the post index object. A missing object yields an
// empty index with an empty version token, which makes the first run
// of a fresh site a create rather than an error.
func (t *S3Target) ReadIndex(ctx context.Context) ([]domain.BlogPost, string, error) {
	out, err := t.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(t.indexKey),
	})
	if err != nil {
		var notFound *s3types.NoSuchKey
		if errors.As(err, &notFound) {
			t.logger.Info("post index not found, starting empty", slog.String("key", t.indexKey))
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read post index: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read post index body: %w", err)
	}

	var posts []domain.BlogPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, "", fmt.Errorf("failed to parse post index: %w", err)
	}
	return posts, aws.ToString(out.ETag), nil
}

// WriteIndex stores the index conditionally on the version token read
// earlier. An empty token asserts the object must not yet exist. A
// precondition failure surfaces as domain.ErrIndexConflict.
func (t *S3Target) WriteIndex(ctx context.Context, posts []domain.BlogPost, version string) (string, error) {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode post index: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(t.indexKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if version == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(version)
	}

	out, err := t.s3Client.PutObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return "", fmt.Errorf("post index changed since read: %w", domain.ErrIndexConflict)
		}
		return "", fmt.Errorf("failed to write post index: %w", err)
	}
	return aws.ToString(out.ETag), nil
}

// PublishPage renders the post to HTML and stores it under
// blog/<slug>/index.html so the page is served at /blog/<slug>.
func (t *S3Target) PublishPage(ctx context.Context, post domain.BlogPost) error {
	page, err := t.renderer.RenderPost(post, t.now())
	if err != nil {
		return fmt.Errorf("failed to render post page: %w", err)
	}

	key := "blog/" + post.Slug + "/index.html"
	_, err = t.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(t.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(page),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return fmt.Errorf("failed to store post page %q: %w", key, err)
	}
	t.logger.Info("stored post page", slog.String("key", key))
	return nil
}

// PublishSitemap stores sitemap.xml and robots.txt at the bucket root.
func (t *S3Target) PublishSitemap(ctx context.Context, sitemap, robots []byte) error {
	objects := []struct {
		key         string
		body        []byte
		contentType string
	}{
		{"sitemap.xml", sitemap, "application/xml"},
		{"robots.txt", robots, "text/plain"},
	}
	for _, obj := range objects {
		_, err := t.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(t.bucket),
			Key:         aws.String(obj.key),
			Body:        bytes.NewReader(obj.body),
			ContentType: aws.String(obj.contentType),
		})
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", obj.key, err)
		}
	}
	return nil
}

// Invalidate issues a CloudFront invalidation for the given paths.
func (t *S3Target) Invalidate(ctx context.Context, paths []string) error {
	if t.distributionID == "" || len(paths) == 0 {
		return nil
	}
	_, err := t.cfClient.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(t.distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(uuid.NewString()),
			Paths: &cftypes.Paths{
				Items:    paths,
				Quantity: aws.Int32(int32(len(paths))),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create invalidation: %w", err)
	}
	t.logger.Info("created cache invalidation", slog.Int("paths", len(paths)))
	return nil
}

var _ domain.PublishTarget = (*S3Target)(nil)
