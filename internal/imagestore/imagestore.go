package imagestore

import (
	"context"
	"io"
)

// Store holds uploaded field images and resolves each one to a publicly
// reachable URL, so the analysis pipeline can treat stored uploads the
// same way as any other remote image.
type Store interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
}
