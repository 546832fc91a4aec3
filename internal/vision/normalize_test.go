package vision

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masar-farm/masar/internal/domain"
)

func TestNormalizeRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	}))
	defer server.Close()

	img, err := Normalize(context.Background(), server.Client(), domain.RemoteImage(server.URL+"/leaf.png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png bytes")), img.Base64Data)
}

func TestNormalizeRemoteDefaultsMime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte("raw"))
	}))
	defer server.Close()

	img, err := Normalize(context.Background(), server.Client(), domain.RemoteImage(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)
}

func TestNormalizeRemoteFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := Normalize(context.Background(), server.Client(), domain.RemoteImage(server.URL+"/missing.jpg"))
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, server.URL+"/missing.jpg", fetchErr.URL)
}

func TestNormalizeUploaded(t *testing.T) {
	img, err := Normalize(context.Background(), http.DefaultClient, domain.UploadedImage([]byte("jpeg bytes"), "image/webp"))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg bytes")), img.Base64Data)
}

func TestNormalizeUploadedDefaultsMime(t *testing.T) {
	img, err := Normalize(context.Background(), http.DefaultClient, domain.UploadedImage([]byte("x"), ""))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	imgs, err := NormalizeAll(context.Background(), http.DefaultClient, []domain.ImageSource{
		domain.UploadedImage([]byte("first"), "image/png"),
		domain.UploadedImage([]byte("second"), "image/jpeg"),
	})
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("first")), imgs[0].Base64Data)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("second")), imgs[1].Base64Data)
}
