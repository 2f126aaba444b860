package port

import (
	"context"
	"io"
)

// SaveInput encapsulates the parameters needed to store an uploaded file.
type SaveInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// FileStore abstracts where uploaded documents live. LocalPath returns a
// path on the local filesystem for the stored object; backends that keep
// objects remotely materialize a temporary copy and report it via cleanup.
type FileStore interface {
	Save(ctx context.Context, input SaveInput) error
	LocalPath(ctx context.Context, key string) (path string, cleanup func(), err error)
	Delete(ctx context.Context, key string) error
}
