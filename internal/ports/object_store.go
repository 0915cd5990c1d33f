package ports

import (
	"context"
	"io"
)

// ObjectStore is a thin capability over the remote bucket. Single attempt,
// fail fast: no retry, pooling, or multipart chunking is layered on top of
// the provider client.
type ObjectStore interface {
	ListBuckets(ctx context.Context) ([]string, error)
	ListObjects(ctx context.Context, bucket string) ([]string, error)

	// Upload streams a file into the bucket under key and returns its
	// location.
	Upload(ctx context.Context, r io.Reader, key string) (location string, err error)

	// Download returns the object body as a stream. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
