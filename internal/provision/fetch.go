package provision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/apkforge/apkforge/internal/branding"
)

// partSuffix marks an in-flight download. Only a completed transfer is
// renamed to the asset path, so an interrupted one never counts as present.
const partSuffix = ".part"

// ProgressFunc observes a transfer. total is -1 when the server did not send
// a length.
type ProgressFunc func(done, total int64)

// Fetcher downloads assets over HTTP. There is no retry, resume, or
// checksum verification.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	progress   ProgressFunc
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) FetchOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) FetchOption {
	return func(f *Fetcher) {
		f.progress = fn
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  branding.UserAgent(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Percent converts a byte count into a whole percentage of total.
func Percent(done, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(done * 100 / total)
	if p > 100 {
		p = 100
	}
	return p
}

// Acquire streams a.Source to a.LocalPath.
func (f *Fetcher) Acquire(ctx context.Context, a Asset) error {
	if a.Source == "" {
		return fmt.Errorf("no source URL for %s", a.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Source, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", a.Source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(a.LocalPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", a.LocalPath, err)
	}

	partPath := a.LocalPath + partSuffix
	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}

	if err := f.copy(out, resp.Body, resp.ContentLength); err != nil {
		out.Close()
		os.Remove(partPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("closing download file: %w", err)
	}
	if err := os.Rename(partPath, a.LocalPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("moving download into place: %w", err)
	}
	return nil
}

func (f *Fetcher) copy(w io.Writer, r io.Reader, total int64) error {
	if total <= 0 {
		total = -1
	}
	var downloaded int64
	lastPercent := -1

	buf := make([]byte, 32*1024)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("writing download: %w", writeErr)
			}
			downloaded += int64(n)
			f.report(downloaded, total, &lastPercent)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading download stream: %w", readErr)
		}
	}
	if total > 0 && downloaded != total {
		return fmt.Errorf("download truncated: got %d of %d bytes", downloaded, total)
	}
	return nil
}

// report calls the progress callback when the integer percent changes, or
// on every chunk when the length is unknown.
func (f *Fetcher) report(done, total int64, lastPercent *int) {
	if f.progress == nil {
		return
	}
	if total < 0 {
		f.progress(done, total)
		return
	}
	if p := Percent(done, total); p != *lastPercent {
		*lastPercent = p
		f.progress(done, total)
	}
}
