package files

import (
	"context"
	"io"
)

// Stored describes an object placed in the external file store.
type Stored struct {
	FileID string
	URL    string
}

// Store is the external object-store contract: upload, delete and
// download-link resolution keyed by an opaque file id.
type Store interface {
	Upload(ctx context.Context, name string, content io.Reader) (*Stored, error)
	Delete(ctx context.Context, fileID string) error
	DownloadLink(ctx context.Context, fileID string) (string, error)
}
