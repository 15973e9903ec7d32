package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds a single download attempt.
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "sfinstall/1.0"
	// maxRedirects matches curl -L's practical behaviour for GitHub assets.
	maxRedirects = 10
)

// ProgressFunc wraps a response body for progress reporting. size is -1
// when unknown. The returned func is called once the copy finishes.
type ProgressFunc func(r io.Reader, size int64) (io.Reader, func())

// Downloader handles HTTP downloads with retry logic.
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	timeout   time.Duration
	backoff   time.Duration
	progress  ProgressFunc
	logger    *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) { dl.timeout = d }
}

// WithRetries sets the number of retries after the first attempt.
func WithRetries(n int) DownloaderOption {
	return func(dl *Downloader) { dl.retries = n }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) DownloaderOption {
	return func(dl *Downloader) { dl.userAgent = ua }
}

// WithProgress reports transfer progress through fn.
func WithProgress(fn ProgressFunc) DownloaderOption {
	return func(dl *Downloader) { dl.progress = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) DownloaderOption {
	return func(dl *Downloader) { dl.logger = l }
}

// WithHTTPClient replaces the HTTP client. Its redirect policy is kept.
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(dl *Downloader) { dl.client = c }
}

// NewDownloader creates a new downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		timeout:   DefaultTimeout,
		backoff:   time.Second,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// StatusError is returned for a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status code: %d", e.URL, e.Code)
}

// retryable reports whether another attempt could succeed.
func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// DownloadToFile downloads url to destPath. The body is written to
// destPath+".tmp" and renamed on success; the temporary file never
// survives a failed attempt.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := d.backoff * time.Duration(1<<uint(attempt-1))
			d.logger.Debug("retrying download", "url", url, "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt.
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var body io.Reader = resp.Body
	if d.progress != nil {
		var finish func()
		body, finish = d.progress(resp.Body, resp.ContentLength)
		defer finish()
	}

	written, err := io.Copy(tmpFile, body)
	if err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	cleanupNeeded = false

	d.logger.Debug("downloaded", "url", url, "bytes", written, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
