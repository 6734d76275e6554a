// Package photo turns image files into inline photo evidence for PPM tasks.
package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aglmct/tracker/internal/domain"
)

// ErrNotImage is returned for files whose content is not a recognised image.
var ErrNotImage = errors.New("not an image")

// DefaultConcurrency bounds how many files are read at once.
const DefaultConcurrency = 8

// Loader reads image files into domain.Photo values.
type Loader struct {
	now         func() time.Time
	concurrency int
	logger      *slog.Logger
}

// NewLoader creates a Loader that stamps photos using now.
func NewLoader(now func() time.Time, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{now: now, concurrency: DefaultConcurrency, logger: logger}
}

// Load reads every path and returns the images among them in argument order.
// Files that cannot be read or are not images are skipped; each produces one
// error naming the file. All photos from one call share a timestamp.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]domain.Photo, []error) {
	stamp := l.now().UTC()
	results := make([]domain.Photo, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, max(l.concurrency, 1))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			errs[i] = fmt.Errorf("%s: %w", path, err)
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			data, err := encode(path)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
				return
			}
			results[i] = domain.Photo{Name: filepath.Base(path), Data: data, Timestamp: stamp}
		}()
	}
	wg.Wait()

	var photos []domain.Photo
	var failed []error
	for i := range paths {
		if errs[i] != nil {
			l.logger.WarnContext(ctx, "photo skipped", "path", paths[i], "error", errs[i])
			failed = append(failed, errs[i])
			continue
		}
		photos = append(photos, results[i])
	}
	return photos, failed
}

// encode reads a file and renders it as a base64 data URL.
func encode(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := http.DetectContentType(raw)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// MediaType extracts the MIME type from a photo's data URL.
func MediaType(p domain.Photo) string {
	rest, ok := strings.CutPrefix(p.Data, "data:")
	if !ok {
		return ""
	}
	mime, _, _ := strings.Cut(rest, ";")
	return mime
}
