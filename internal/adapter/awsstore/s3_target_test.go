package awsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-publisher/internal/domain"
	"blog-publisher/internal/render"
)

type stubS3 struct {
	getOut  *s3.GetObjectOutput
	getErr  error
	putOut  *s3.PutObjectOutput
	putErr  error
	getIn   []*s3.GetObjectInput
	putIn   []*s3.PutObjectInput
	putBody [][]byte
}

func (s *stubS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.getIn = append(s.getIn, in)
	return s.getOut, s.getErr
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.putIn = append(s.putIn, in)
	if in.Body != nil {
		body, _ := io.ReadAll(in.Body)
		s.putBody = append(s.putBody, body)
	} else {
		s.putBody = append(s.putBody, nil)
	}
	return s.putOut, s.putErr
}

type stubCloudFront struct {
	in  []*cloudfront.CreateInvalidationInput
	err error
}

func (s *stubCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	s.in = append(s.in, in)
	return &cloudfront.CreateInvalidationOutput{}, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTarget(s3c *stubS3, cfc *stubCloudFront) *S3Target {
	renderer := render.NewSiteRenderer("https://example.com", "Example Capital")
	t := NewS3Target(s3c, cfc, "site-bucket", "data/blog-index.json", "DIST123", renderer, testLogger())
	t.now = func() time.Time { return time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC) }
	return t
}

func TestS3Target_ReadIndex(t *testing.T) {
	posts := []domain.BlogPost{{Slug: "first-post", Title: "First Post"}}
	data, err := json.Marshal(posts)
	require.NoError(t, err)

	s3c := &stubS3{getOut: &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
		ETag: aws.String(`"etag-1"`),
	}}
	target := testTarget(s3c, &stubCloudFront{})

	got, version, err := target.ReadIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, posts, got)
	assert.Equal(t, `"etag-1"`, version)
	require.Len(t, s3c.getIn, 1)
	assert.Equal(t, "site-bucket", aws.ToString(s3c.getIn[0].Bucket))
	assert.Equal(t, "data/blog-index.json", aws.ToString(s3c.getIn[0].Key))
}

func TestS3Target_ReadIndex_Missing(t *testing.T) {
	s3c := &stubS3{getErr: &s3types.NoSuchKey{}}
	target := testTarget(s3c, &stubCloudFront{})

	posts, version, err := target.ReadIndex(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Empty(t, version)
}

func TestS3Target_ReadIndex_Corrupt(t *testing.T) {
	s3c := &stubS3{getOut: &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader([]byte("not json"))),
	}}
	target := testTarget(s3c, &stubCloudFront{})

	_, _, err := target.ReadIndex(context.Background())
	assert.Error(t, err)
}

func TestS3Target_WriteIndex_ConditionalPut(t *testing.T) {
	s3c := &stubS3{putOut: &s3.PutObjectOutput{ETag: aws.String(`"etag-2"`)}}
	target := testTarget(s3c, &stubCloudFront{})
	posts := []domain.BlogPost{{Slug: "first-post"}}

	ref, err := target.WriteIndex(context.Background(), posts, `"etag-1"`)
	require.NoError(t, err)
	assert.Equal(t, `"etag-2"`, ref)
	require.Len(t, s3c.putIn, 1)
	assert.Equal(t, `"etag-1"`, aws.ToString(s3c.putIn[0].IfMatch))
	assert.Nil(t, s3c.putIn[0].IfNoneMatch)
	assert.Equal(t, "application/json", aws.ToString(s3c.putIn[0].ContentType))

	var stored []domain.BlogPost
	require.NoError(t, json.Unmarshal(s3c.putBody[0], &stored))
	assert.Equal(t, posts, stored)
}

func TestS3Target_WriteIndex_FirstWrite(t *testing.T) {
	s3c := &stubS3{putOut: &s3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}}
	target := testTarget(s3c, &stubCloudFront{})

	_, err := target.WriteIndex(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, s3c.putIn, 1)
	assert.Nil(t, s3c.putIn[0].IfMatch)
	assert.Equal(t, "*", aws.ToString(s3c.putIn[0].IfNoneMatch))
}

func TestS3Target_WriteIndex_Conflict(t *testing.T) {
	s3c := &stubS3{putErr: &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "precondition failed"}}
	target := testTarget(s3c, &stubCloudFront{})

	_, err := target.WriteIndex(context.Background(), nil, `"stale"`)
	assert.ErrorIs(t, err, domain.ErrIndexConflict)
}

func TestS3Target_PublishPage(t *testing.T) {
	s3c := &stubS3{putOut: &s3.PutObjectOutput{}}
	target := testTarget(s3c, &stubCloudFront{})
	post := domain.BlogPost{
		Slug:        "understanding-stop-losses",
		Category:    "Risk Management",
		Title:       "Understanding Stop Losses",
		Description: "How stop losses protect trading capital.",
		Sections: []domain.BlogSection{
			{Heading: "Why Stops Matter", Content: "Stops cap downside."},
		},
		PublishDate: "2026-03-04",
	}

	require.NoError(t, target.PublishPage(context.Background(), post))
	require.Len(t, s3c.putIn, 1)
	assert.Equal(t, "blog/understanding-stop-losses/index.html", aws.ToString(s3c.putIn[0].Key))
	assert.Equal(t, "text/html; charset=utf-8", aws.ToString(s3c.putIn[0].ContentType))
	assert.Contains(t, string(s3c.putBody[0]), "Understanding Stop Losses")
}

func TestS3Target_PublishSitemap(t *testing.T) {
	s3c := &stubS3{putOut: &s3.PutObjectOutput{}}
	target := testTarget(s3c, &stubCloudFront{})

	require.NoError(t, target.PublishSitemap(context.Background(), []byte("<urlset/>"), []byte("User-agent: *")))
	require.Len(t, s3c.putIn, 2)
	assert.Equal(t, "sitemap.xml", aws.ToString(s3c.putIn[0].Key))
	assert.Equal(t, "robots.txt", aws.ToString(s3c.putIn[1].Key))
	assert.Equal(t, "<urlset/>", string(s3c.putBody[0]))
	assert.Equal(t, "User-agent: *", string(s3c.putBody[1]))
}

func TestS3Target_Invalidate(t *testing.T) {
	cfc := &stubCloudFront{}
	target := testTarget(&stubS3{}, cfc)
	paths := []string{"/blog/understanding-stop-losses*", "/blog", "/sitemap.xml"}

	require.NoError(t, target.Invalidate(context.Background(), paths))
	require.Len(t, cfc.in, 1)
	batch := cfc.in[0].InvalidationBatch
	assert.Equal(t, "DIST123", aws.ToString(cfc.in[0].DistributionId))
	assert.Equal(t, paths, batch.Paths.Items)
	assert.Equal(t, int32(3), aws.ToInt32(batch.Paths.Quantity))
	assert.NotEmpty(t, aws.ToString(batch.CallerReference))
}

func TestS3Target_Invalidate_NoDistribution(t *testing.T) {
	cfc := &stubCloudFront{}
	renderer := render.NewSiteRenderer("https://example.com", "Example Capital")
	target := NewS3Target(&stubS3{}, cfc, "site-bucket", "data/blog-index.json", "", renderer, testLogger())

	require.NoError(t, target.Invalidate(context.Background(), []string{"/blog"}))
	assert.Empty(t, cfc.in)
}
