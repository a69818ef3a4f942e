// Package imagefetch loads and decodes raster images for the canvas, either
// from a URL or from uploaded bytes.
//
// URL fetches are bounded by a configurable timeout and retried on transient
// failures. Fetched bytes can be cached on disk so repeated adds of the same
// URL skip the network. Every failure mode (unreachable host, non-2xx status,
// undecodable payload, timeout) surfaces as an IMAGE_LOAD_FAILURE error so a
// failed add never partially mutates session state.
package imagefetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// Image formats accepted for canvas image elements.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/canvasd/canvasd/pkg/errors"
	"github.com/canvasd/canvasd/pkg/httputil"
	"github.com/canvasd/canvasd/pkg/observability"
)

// DefaultTimeout bounds a single URL fetch including retries.
const DefaultTimeout = 5 * time.Second

// maxBodyBytes caps how much of a remote response is read. Responses larger
// than this fail the fetch rather than exhaust memory.
const maxBodyBytes = 64 << 20

// Loader fetches and decodes images. Safe for concurrent use as long as the
// configured cache directory is not shared with writers outside this process.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	cache   *httputil.Cache
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the per-fetch deadline (default 5s).
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithCache enables on-disk caching of fetched image bytes.
func WithCache(c *httputil.Cache) Option {
	return func(l *Loader) {
		if c != nil {
			l.cache = c.Namespace("image:")
		}
	}
}

// WithClient replaces the HTTP client (useful in tests).
func WithClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// NewLoader creates a Loader with the default timeout and no cache.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch downloads and decodes the image at url. The fetch is bounded by the
// loader's timeout regardless of the parent context. On success the raw
// bytes are cached (when a cache is configured) keyed by the URL.
func (l *Loader) Fetch(ctx context.Context, url string) (image.Image, error) {
	if l.cache != nil {
		var data []byte
		if hit, err := l.cache.Get(url, &data); hit && err == nil {
			observability.Fetch().OnCacheHit(ctx, url)
			if img, err := Decode(data); err == nil {
				return img, nil
			}
			// Corrupt cache entry: drop it and refetch.
			_ = l.cache.Delete(url)
		}
		observability.Fetch().OnCacheMiss(ctx, url)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	data, err := l.download(ctx, url)
	observability.Fetch().OnFetchComplete(ctx, url, len(data), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoadFailure, err, "failed to fetch image from %s", url)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		// Best effort: a cache write failure never fails the add.
		_ = l.cache.Set(url, data)
	}
	return img, nil
}

// download performs the HTTP GET with retry on transient failures.
func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, 3, 250*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			// Leave context errors unwrapped so the deadline aborts retries.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return &httputil.RetryableError{Err: fmt.Errorf("server returned %s", resp.Status)}
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s", resp.Status)
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		if len(data) > maxBodyBytes {
			return fmt.Errorf("image exceeds %d byte limit", maxBodyBytes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Decode decodes image bytes in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP). Used for both fetched and uploaded payloads.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageLoadFailure, err, "failed to decode image data")
	}
	return img, nil
}
