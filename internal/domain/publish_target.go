package domain

import "context"

// PublishTarget is the capability a deployment variant provides for
// making a post visible: the GitHub variant commits documents to a
// repository consumed by a later site build, the S3 variant uploads
// rendered documents directly and invalidates the CDN.
//
// ReadIndex returns the post collection newest-first together with an
// opaque version token (object ETag, blob sha). A missing index is not
// an error: it returns an empty collection and an empty token.
// WriteIndex replaces the whole index conditionally on the token
// observed at read; a concurrent writer surfaces as ErrIndexConflict.
type PublishTarget interface {
	ReadIndex(ctx context.Context) (posts []BlogPost, version string, err error)
	WriteIndex(ctx context.Context, posts []BlogPost, version string) (ref string, err error)

	// PublishPage stores the self-contained rendered document for one
	// post. Targets whose consumer renders from the index itself
	// implement this as a no-op.
	PublishPage(ctx context.Context, post BlogPost) error

	// PublishSitemap stores the freshly recomputed sitemap and robots
	// documents.
	PublishSitemap(ctx context.Context, sitemap, robots []byte) error

	// Invalidate requests cache invalidation for the given site paths.
	// Callers treat failures as best-effort.
	Invalidate(ctx context.Context, paths []string) error

	Name() string
}
