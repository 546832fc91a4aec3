package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/masar-farm/masar/internal/domain"
)

// defaultMimeType is assumed whenever an image arrives without a
// declared content type.
const defaultMimeType = "image/jpeg"

// Normalize converts one image source into the inline base64 form the
// analyzers send upstream. Remote sources cost one HTTP GET; uploaded
// bytes are encoded in place. Callers cap the image list before calling
// — Normalize itself never truncates.
func Normalize(ctx context.Context, client *http.Client, src domain.ImageSource) (domain.InlineImage, error) {
	if src.IsRemote() {
		return fetchRemote(ctx, client, src.URL)
	}

	mimeType := src.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return domain.InlineImage{
		MimeType:   mimeType,
		Base64Data: base64.StdEncoding.EncodeToString(src.Data),
	}, nil
}

// NormalizeAll normalizes the sources sequentially, in input order.
func NormalizeAll(ctx context.Context, client *http.Client, srcs []domain.ImageSource) ([]domain.InlineImage, error) {
	images := make([]domain.InlineImage, 0, len(srcs))
	for _, src := range srcs {
		img, err := Normalize(ctx, client, src)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func fetchRemote(ctx context.Context, client *http.Client, url string) (domain.InlineImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.InlineImage{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return domain.InlineImage{}, fmt.Errorf("failed to fetch image %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.InlineImage{}, &domain.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.InlineImage{}, fmt.Errorf("failed to read image body: %w", err)
	}

	return domain.InlineImage{
		MimeType:   mimeType,
		Base64Data: base64.StdEncoding.EncodeToString(data),
	}, nil
}
