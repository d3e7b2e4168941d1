// Package media acquires source images for task submission.
// A remote image URL is downloaded into a temporary file whose extension is
// inferred from content metadata; the caller owns the returned file and must
// delete it after submission on every exit path.
package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/davidseroussi/kling-api/internal/storage"
)

// ErrFetch is returned when the source image cannot be downloaded.
var ErrFetch = errors.New("media: image fetch failed")

// defaultExtension is used when neither the content type nor the URL path
// yields a usable extension.
const defaultExtension = ".jpg"

// extensionByContentType maps known image content types to file extensions.
var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Fetcher downloads remote source images into temporary files.
type Fetcher struct {
	store      storage.Storage
	httpClient *http.Client
}

// FetcherOption is a function that configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client for downloads.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a new Fetcher writing temporary files through store.
func NewFetcher(store storage.Storage, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		store:      store,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the image at rawURL and returns the path of a temporary
// file holding its content. The caller is responsible for deleting the file.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	ext := resolveExtension(resp.Header.Get("Content-Type"), rawURL)

	filePath, err := f.store.SaveTemp(ctx, "source_*"+ext, resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: save image: %v", ErrFetch, err)
	}

	return filePath, nil
}

// resolveExtension picks a file extension for the downloaded image: first
// from the response content type, then from the URL path, then ".jpg".
func resolveExtension(contentType, rawURL string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if ext, ok := extensionByContentType[mediaType]; ok {
				return ext
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}

	return defaultExtension
}
