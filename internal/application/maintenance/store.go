// Package maintenance holds the PPM and CM task stores.
//
// Each store owns an ordered, newest-first sequence of records and writes the
// whole sequence through to one storage slot after every mutation.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aglmct/tracker/internal/core"
	"github.com/aglmct/tracker/internal/domain"
	"golang.org/x/text/cases"
)

// Default slot keys, matching the browser tracker's localStorage keys.
const (
	DefaultPPMKey = "agl_ppm_tasks"
	DefaultCMKey  = "agl_cm_tasks"
)

// Config holds configuration for a store.
type Config struct {
	// Key is the storage slot. Defaults to DefaultPPMKey or DefaultCMKey.
	Key string
	// Now is the clock used for completion and creation timestamps.
	Now func() time.Time
	// Logger receives data-integrity warnings.
	Logger *slog.Logger
}

func (c Config) withDefaults(key string) Config {
	if c.Key == "" {
		c.Key = key
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// loadSlot decodes the JSON array stored under key.
// An absent slot is empty. A malformed slot is logged and treated as empty.
func loadSlot[T any](ctx context.Context, storage core.Storage, key string, logger *slog.Logger) ([]T, error) {
	data, err := storage.Load(ctx, key)
	if errors.Is(err, core.ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.ErrorContext(ctx, "discarding malformed task slot", "key", key, "error", err)
		return nil, nil
	}
	return items, nil
}

// saveSlot encodes items as a JSON array (never null) and replaces the slot.
func saveSlot[T any](ctx context.Context, storage core.Storage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := storage.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// matcher does caseless substring matching with Unicode case folding.
// A cases.Caser is stateful, so each Filter call builds its own matcher.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}
	m := &matcher{fold: cases.Fold()}
	m.needle = m.fold.String(search)
	return m
}

// matches reports whether any field contains the needle. A nil matcher matches everything.
func (m *matcher) matches(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.fold.String(f), m.needle) {
			return true
		}
	}
	return false
}

func isAll(filter string) bool {
	return filter == "" || filter == "All"
}

// resolveID finds the id that ref names: an exact match, or else the single
// id ending in ref. Tables print id tails, so operators type those.
func resolveID(ids []domain.TaskID, ref string) (domain.TaskID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty task id", domain.ErrValidation)
	}

	var found []domain.TaskID
	for _, id := range ids {
		if string(id) == ref {
			return id, nil
		}
		if strings.HasSuffix(string(id), ref) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: id %q is ambiguous (%d matches)", domain.ErrValidation, ref, len(found))
	}
}
