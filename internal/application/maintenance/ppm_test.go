package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Now:    func() time.Time { return now },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newTestPPMStore(t *testing.T) (*PPMStore, *memory.Store) {
	t.Helper()
	mem := memory.NewStore()
	return NewPPMStore(mem, testConfig()), mem
}

func ppmFields(desc, due string) domain.PPMFields {
	return domain.PPMFields{
		ShiftType:   "Day",
		Description: desc,
		Type:        "Inspection",
		DueDate:     due,
		Status:      domain.StatusNotStarted,
	}
}

// reload reads the persisted slot into a fresh store.
func reload(t *testing.T, mem *memory.Store) *PPMStore {
	t.Helper()
	store := NewPPMStore(mem, testConfig())
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store
}

func TestPPMStore_AddInsertsAtFrontAndPersists(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	first, err := store.Add(ctx, ppmFields("PPM for Edge Light at Taxiway A", "2025-06-20"))
	require.NoError(t, err)
	second, err := store.Add(ctx, ppmFields("PPM for PAPI at Runway 08L", "2025-06-21"))
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, first.LastCompleted)
	assert.NotNil(t, first.Photos)

	listed := store.List()
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)

	assert.Equal(t, listed, reload(t, mem).List())
}

func TestPPMStore_AddRejectsInvalidDueDate(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	for _, due := range []string{"", "2025-02-30", "2025-13-01", "15/06/2025"} {
		_, err := store.Add(ctx, ppmFields("bad", due))
		assert.ErrorIs(t, err, domain.ErrValidation, "due=%q", due)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "due=%q", due)
	}

	assert.Empty(t, store.List())
	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPPMStore_Completion(t *testing.T) {
	tests := []struct {
		name       string
		due        string
		frequency  domain.Frequency
		wantDue    string
		wantStatus domain.ManualStatus
	}{
		{"monthly rolls over", "2025-01-10", domain.FrequencyMonthly, "2025-02-10", domain.StatusNotStarted},
		{"weekly rolls over", "2025-06-10", domain.FrequencyWeekly, "2025-06-17", domain.StatusNotStarted},
		{"daily rolls over", "2025-06-15", domain.FrequencyDaily, "2025-06-16", domain.StatusNotStarted},
		{"monthly clamps to month end", "2025-01-31", domain.FrequencyMonthly, "2025-02-28", domain.StatusNotStarted},
		{"quarterly", "2025-11-30", domain.FrequencyQuarterly, "2026-02-28", domain.StatusNotStarted},
		{"yearly from leap day", "2024-02-29", domain.FrequencyYearly, "2025-02-28", domain.StatusNotStarted},
		{"one-off stays completed", "2025-06-10", "", "2025-06-10", domain.StatusCompleted},
		{"unknown frequency keeps date", "2025-06-10", "Fortnightly", "2025-06-10", domain.StatusNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestPPMStore(t)
			fields := ppmFields("PPM for Stop Bar at Holding Point B", tt.due)
			fields.Frequency = tt.frequency
			fields.Status = domain.StatusCompleted

			task, err := store.Add(context.Background(), fields)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDue, task.DueDate)
			assert.Equal(t, tt.wantStatus, task.Status)
			require.NotNil(t, task.LastCompleted)
			assert.True(t, now.Equal(*task.LastCompleted))
		})
	}
}

func TestPPMStore_Update(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	fields := ppmFields("PPM for Approach Light at Runway 26R", "2025-06-10")
	fields.Frequency = domain.FrequencyMonthly
	task, err := store.Add(ctx, fields)
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Update(ctx, "nope", fields)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid date leaves task untouched", func(t *testing.T) {
		bad := fields
		bad.DueDate = "2025-06-31"
		_, err := store.Update(ctx, task.ID, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := store.Get(task.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-10", got.DueDate)
	})

	t.Run("completion rolls over and stamps", func(t *testing.T) {
		done := fields
		done.Status = domain.StatusCompleted
		updated, err := store.Update(ctx, task.ID, done)
		require.NoError(t, err)

		assert.Equal(t, task.ID, updated.ID)
		assert.Equal(t, "2025-07-10", updated.DueDate)
		assert.Equal(t, domain.StatusNotStarted, updated.Status)
		require.NotNil(t, updated.LastCompleted)
	})

	t.Run("later edit preserves last completed", func(t *testing.T) {
		edit := ppmFields("PPM for Approach Light at Runway 26R (east)", "2025-07-12")
		edit.Status = domain.StatusInProgress
		edit.NightShift = "R. Okafor"
		updated, err := store.Update(ctx, task.ID, edit)
		require.NoError(t, err)

		require.NotNil(t, updated.LastCompleted)
		assert.True(t, now.Equal(*updated.LastCompleted))
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, "R. Okafor", updated.NightShift)
		assert.Empty(t, updated.Frequency)
	})

	persisted, err := reload(t, mem).Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-12", persisted.DueDate)
}

func TestPPMStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	task, err := store.Add(ctx, ppmFields("PPM for Windsock at Apron", "2025-06-20"))
	require.NoError(t, err)

	removed, err := store.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Empty(t, reload(t, mem).List())
}

func TestPPMStore_Filter(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestPPMStore(t)

	add := func(shift, desc, typ string, st domain.ManualStatus) {
		f := ppmFields(desc, "2025-06-20")
		f.ShiftType, f.Type, f.Status = shift, typ, st
		_, err := store.Add(ctx, f)
		require.NoError(t, err)
	}
	add("Day", "PPM for Edge Light at Runway 08L", "Inspection", domain.StatusNotStarted)
	add("Night", "PPM for Stop Bar at Taxiway B", "Repair", domain.StatusInProgress)
	add("Both", "Clean Straße signage", "Cleaning", domain.StatusNotStarted)

	descriptions := func(tasks []domain.PPMTask) []string {
		var out []string
		for _, t := range tasks {
			out = append(out, t.Description)
		}
		return out
	}

	tests := []struct {
		name   string
		shift  string
		search string
		want   []string
	}{
		{"no filters", "All", "", []string{"Clean Straße signage", "PPM for Stop Bar at Taxiway B", "PPM for Edge Light at Runway 08L"}},
		{"empty shift means all", "", "ppm", []string{"PPM for Stop Bar at Taxiway B", "PPM for Edge Light at Runway 08L"}},
		{"shift exact", "Night", "", []string{"PPM for Stop Bar at Taxiway B"}},
		{"shift is case sensitive", "night", "", nil},
		{"caseless description", "All", "RUNWAY", []string{"PPM for Edge Light at Runway 08L"}},
		{"matches type", "All", "repair", []string{"PPM for Stop Bar at Taxiway B"}},
		{"matches status", "All", "in progress", []string{"PPM for Stop Bar at Taxiway B"}},
		{"unicode folding", "All", "STRASSE", []string{"Clean Straße signage"}},
		{"shift and search combine", "Day", "taxiway", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(store.Filter(tt.shift, tt.search)))
		})
	}
}

func TestPPMStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("absent slot is empty", func(t *testing.T) {
		store, _ := newTestPPMStore(t)
		evicted, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, evicted)
		assert.Empty(t, store.List())
	})

	t.Run("malformed slot is empty", func(t *testing.T) {
		store, mem := newTestPPMStore(t)
		require.NoError(t, mem.Save(ctx, DefaultPPMKey, []byte(`{not json`)))

		evicted, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, evicted)
		assert.Empty(t, store.List())
	})

	t.Run("legacy records load and invalid dates are evicted", func(t *testing.T) {
		store, mem := newTestPPMStore(t)
		legacy := `[
			{"id":1718000000000,"shiftType":"Day","description":"PPM for Edge Light at Taxiway A","type":"Inspection","dueDate":"2025-06-20","frequency":"Weekly","status":"Not Started","dayShift":"","nightShift":"","photos":[],"lastCompleted":"2025-06-13T08:15:00.000Z"},
			{"id":1718000000001,"description":"bad date","dueDate":"2025-02-30"},
			{"id":1718000000002,"description":"no date"}
		]`
		require.NoError(t, mem.Save(ctx, DefaultPPMKey, []byte(legacy)))

		evicted, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, evicted)

		tasks := store.List()
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.TaskID("1718000000000"), tasks[0].ID)
		require.NotNil(t, tasks[0].LastCompleted)
		assert.Equal(t, "2025-06-13", domain.Today(*tasks[0].LastCompleted))
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		store := NewPPMStore(failingStorage{}, testConfig())
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, errBackendDown)
	})
}

func TestPPMStore_RemoveInvalid(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)
	require.NoError(t, mem.Save(ctx, DefaultPPMKey, []byte(
		`[{"id":"a","dueDate":"2025-06-20"},{"id":"b","dueDate":"20-06-2025"}]`)))

	_, err := store.Load(ctx)
	require.NoError(t, err)

	removed, err := store.RemoveInvalid(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	raw, err := mem.Load(ctx, DefaultPPMKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"b"`)

	// Idempotent: nothing left to remove, nothing written.
	mem.FailSaves(errors.New("should not be called"))
	removed, err = store.RemoveInvalid(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPPMStore_RollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	task, err := store.Add(ctx, ppmFields("PPM for Beacon at Tower", "2025-06-20"))
	require.NoError(t, err)
	before := store.List()

	boom := errors.New("disk full")
	mem.FailSaves(boom)

	_, err = store.Add(ctx, ppmFields("another", "2025-06-21"))
	assert.ErrorIs(t, err, boom)

	done := ppmFields("PPM for Beacon at Tower", "2025-06-20")
	done.Status = domain.StatusCompleted
	done.Frequency = domain.FrequencyWeekly
	_, err = store.Update(ctx, task.ID, done)
	assert.ErrorIs(t, err, boom)

	_, err = store.Delete(ctx, task.ID)
	assert.ErrorIs(t, err, boom)

	_, err = store.AddPhotos(ctx, task.ID, domain.Photo{Name: "a.png"})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, before, store.List())
}

func TestPPMStore_Photos(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	task, err := store.Add(ctx, ppmFields("PPM for Edge Light at Taxiway C", "2025-06-20"))
	require.NoError(t, err)

	_, err = store.AddPhotos(ctx, "missing", domain.Photo{Name: "x.png"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	task, err = store.AddPhotos(ctx, task.ID,
		domain.Photo{Name: "before.jpg", Data: "data:image/jpeg;base64,AAAA", Timestamp: now},
		domain.Photo{Name: "after.jpg", Data: "data:image/jpeg;base64,BBBB", Timestamp: now},
	)
	require.NoError(t, err)
	require.Len(t, task.Photos, 2)

	_, err = store.RemovePhoto(ctx, task.ID, 2)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = store.RemovePhoto(ctx, task.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	task, err = store.RemovePhoto(ctx, task.ID, 0)
	require.NoError(t, err)
	require.Len(t, task.Photos, 1)
	assert.Equal(t, "after.jpg", task.Photos[0].Name)

	persisted, err := reload(t, mem).Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Photos, persisted.Photos)
}

func TestPPMStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestPPMStore(t)

	f := ppmFields("PPM for Edge Light at Taxiway D", "2025-06-20")
	f.Photos = []domain.Photo{{Name: "one.png"}}
	task, err := store.Add(ctx, f)
	require.NoError(t, err)

	f.Photos[0].Name = "changed by caller"
	task.Photos[0].Name = "changed via result"
	listed := store.List()
	listed[0].Photos[0].Name = "changed via list"

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "one.png", got.Photos[0].Name)
}

func TestPPMStore_History(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()

	clock := now
	cfg := testConfig()
	cfg.Now = func() time.Time { return clock }
	store := NewPPMStore(mem, cfg)

	_, err := store.Add(ctx, ppmFields("never done", "2025-06-20"))
	require.NoError(t, err)

	var ids []domain.TaskID
	for i := range 12 {
		clock = now.Add(time.Duration(i) * time.Hour)
		f := ppmFields("done", "2025-06-20")
		f.Status = domain.StatusCompleted
		task, err := store.Add(ctx, f)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	history := store.History(0)
	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, ids[11], history[0].ID)
	assert.Equal(t, ids[2], history[9].ID)

	assert.Len(t, store.History(3), 3)
	assert.Len(t, store.History(50), 12)
}

func TestPPMStore_Import(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	existing, err := store.Add(ctx, ppmFields("PPM for Edge Light at Taxiway A", "2025-06-20"))
	require.NoError(t, err)

	updatedCopy := existing
	updatedCopy.Description = "PPM for Edge Light at Taxiway A (relamped)"

	added, updated, skipped, err := store.Import(ctx, []domain.PPMTask{
		{Description: "first new", DueDate: "2025-06-21", Frequency: domain.FrequencyWeekly},
		updatedCopy,
		{ID: "dup", Description: "second new", DueDate: "2025-06-22"},
		{ID: "dup", Description: "third new", DueDate: "2025-06-23"},
		{Description: "broken", DueDate: "June 24"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)

	tasks := reload(t, mem).List()
	require.Len(t, tasks, 4)
	assert.Equal(t, "first new", tasks[0].Description)
	assert.Equal(t, "second new", tasks[1].Description)
	assert.Equal(t, "third new", tasks[2].Description)
	assert.Equal(t, "PPM for Edge Light at Taxiway A (relamped)", tasks[3].Description)
	assert.Equal(t, existing.ID, tasks[3].ID)
	assert.NotEqual(t, tasks[1].ID, tasks[2].ID)
	assert.Equal(t, domain.StatusNotStarted, tasks[0].Status)
}

func TestPPMStore_Replace(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	_, err := store.Add(ctx, ppmFields("old", "2025-06-20"))
	require.NoError(t, err)

	stored, skipped, err := store.Replace(ctx, []domain.PPMTask{
		{ID: "x", Description: "new", DueDate: "2025-07-01"},
		{ID: "y", Description: "bad", DueDate: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
	assert.Equal(t, 1, skipped)

	tasks := reload(t, mem).List()
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskID("x"), tasks[0].ID)
}

func TestPPMStore_SlotIsJSONArray(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestPPMStore(t)

	task, err := store.Add(ctx, ppmFields("PPM for Edge Light at Taxiway A", "2025-06-20"))
	require.NoError(t, err)
	_, err = store.Delete(ctx, task.ID)
	require.NoError(t, err)

	raw, err := mem.Load(ctx, DefaultPPMKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

var errBackendDown = errors.New("backend down")

type failingStorage struct{}

func (failingStorage) Load(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (failingStorage) Save(context.Context, string, []byte) error   { return errBackendDown }
func (failingStorage) Keys(context.Context) ([]string, error)       { return nil, errBackendDown }
