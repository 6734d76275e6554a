package maintenance

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aglmct/tracker/internal/core"
	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/ptr"
	"github.com/aglmct/tracker/internal/recurring"
	"go.opentelemetry.io/otel"
)

// DefaultHistoryLimit is the number of completions History returns when no limit is given.
const DefaultHistoryLimit = 10

// PPMStore owns the planned maintenance tasks.
type PPMStore struct {
	storage core.Storage
	key     string
	now     func() time.Time
	logger  *slog.Logger
	metrics *storeMetrics

	mu    sync.RWMutex
	tasks []domain.PPMTask
	// pending counts records evicted on Load that are still present in the slot.
	pending int
}

// NewPPMStore creates an empty PPM store. Call Load to read the slot.
func NewPPMStore(storage core.Storage, config Config) *PPMStore {
	config = config.withDefaults(DefaultPPMKey)
	return &PPMStore{
		storage: storage,
		key:     config.Key,
		now:     config.Now,
		logger:  config.Logger,
		metrics: newStoreMetrics(otel.Meter(meterName), config.Logger),
	}
}

// Load replaces the in-memory tasks with the slot contents.
// Records with a missing or invalid due date are evicted and counted; the
// slot itself is rewritten on the next mutation or by RemoveInvalid.
func (s *PPMStore) Load(ctx context.Context) (int, error) {
	tasks, err := loadSlot[domain.PPMTask](ctx, s.storage, s.key, s.logger)
	if err != nil {
		return 0, err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if !domain.IsValidDate(t.DueDate) {
			s.logger.WarnContext(ctx, "removed task with invalid due date",
				"id", t.ID, "description", t.Description, "due_date", t.DueDate)
			continue
		}
		kept = append(kept, t)
	}
	evicted := len(tasks) - len(kept)
	s.metrics.evicted(ctx, evicted, "load")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = kept
	s.pending = evicted
	return evicted, nil
}

// Add validates fields and inserts a new task at the front.
//
// Submitting a recurring task as Completed records the completion and rolls
// the task over to its next due date as Not Started.
func (s *PPMStore) Add(ctx context.Context, fields domain.PPMFields) (domain.PPMTask, error) {
	if err := validateDueDate(fields.DueDate); err != nil {
		return domain.PPMTask{}, err
	}

	id, err := domain.NewTaskID()
	if err != nil {
		return domain.PPMTask{}, err
	}

	task := s.apply(ctx, domain.PPMTask{ID: id}, fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		return slices.Insert(tasks, 0, task)
	})
	if err != nil {
		return domain.PPMTask{}, err
	}
	s.countCompletion(ctx, fields)
	return task.Clone(), nil
}

// Update replaces every mutable field of an existing task.
// LastCompleted is preserved unless the task is completed by this update.
func (s *PPMStore) Update(ctx context.Context, id domain.TaskID, fields domain.PPMFields) (domain.PPMTask, error) {
	if err := validateDueDate(fields.DueDate); err != nil {
		return domain.PPMTask{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.PPMTask{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	task := s.apply(ctx, s.tasks[i], fields)
	err := s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		tasks[i] = task
		return tasks
	})
	if err != nil {
		return domain.PPMTask{}, err
	}
	s.countCompletion(ctx, fields)
	return task.Clone(), nil
}

// apply writes fields onto base, handling completion and roll-over.
func (s *PPMStore) apply(ctx context.Context, base domain.PPMTask, fields domain.PPMFields) domain.PPMTask {
	task := domain.PPMTask{
		ID:            base.ID,
		ShiftType:     fields.ShiftType,
		Description:   fields.Description,
		Type:          fields.Type,
		DueDate:       fields.DueDate,
		Frequency:     fields.Frequency,
		Status:        fields.Status,
		DayShift:      fields.DayShift,
		NightShift:    fields.NightShift,
		Photos:        slices.Clone(fields.Photos),
		LastCompleted: base.LastCompleted,
	}
	if task.Status == "" {
		task.Status = domain.StatusNotStarted
	}
	if task.Photos == nil {
		task.Photos = []domain.Photo{}
	}

	if task.Status != domain.StatusCompleted {
		return task
	}

	now := s.now()
	task.LastCompleted = ptr.To(now.UTC())
	if task.Frequency != "" {
		next, fellBack := recurring.NextDueDateOr(task.DueDate, task.Frequency, now)
		if fellBack {
			s.logger.WarnContext(ctx, "due date could not be advanced, using today",
				"id", task.ID, "due_date", task.DueDate)
		}
		task.DueDate = next
		task.Status = domain.StatusNotStarted
	}
	return task
}

func (s *PPMStore) countCompletion(ctx context.Context, fields domain.PPMFields) {
	if fields.Status == domain.StatusCompleted {
		s.metrics.completed(ctx, fields.Frequency != "")
	}
}

// Delete removes a task. It reports whether a task was removed; an unknown
// id is not an error.
func (s *PPMStore) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	err := s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		return slices.Delete(tasks, i, i+1)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get returns a copy of the task with the given id.
func (s *PPMStore) Get(id domain.TaskID) (domain.PPMTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.PPMTask{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return s.tasks[i].Clone(), nil
}

// Resolve maps a full id or a unique id tail to a task id.
func (s *PPMStore) Resolve(ref string) (domain.TaskID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.TaskID, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return resolveID(ids, ref)
}

// List returns copies of all tasks, newest first.
func (s *PPMStore) List() []domain.PPMTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.tasks)
}

// Filter returns tasks matching shiftType exactly ("All" or empty disables the
// filter) and containing searchText caselessly in the description, type or status.
func (s *PPMStore) Filter(shiftType, searchText string) []domain.PPMTask {
	m := newMatcher(searchText)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.PPMTask
	for _, t := range s.tasks {
		if !isAll(shiftType) && t.ShiftType != shiftType {
			continue
		}
		if !m.matches(t.Description, t.Type, string(t.Status)) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// RemoveInvalid evicts every task whose due date is not a valid calendar date,
// including those already dropped by Load, and persists when anything changed.
// It returns the number of records removed from the slot.
func (s *PPMStore) RemoveInvalid(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, t := range s.tasks {
		if !domain.IsValidDate(t.DueDate) {
			removed++
		}
	}
	if removed == 0 && s.pending == 0 {
		return 0, nil
	}

	total := removed + s.pending
	err := s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		return slices.DeleteFunc(tasks, func(t domain.PPMTask) bool {
			return !domain.IsValidDate(t.DueDate)
		})
	})
	if err != nil {
		return 0, err
	}
	s.metrics.evicted(ctx, removed, "clean")
	return total, nil
}

// AddPhotos appends photos to a task.
func (s *PPMStore) AddPhotos(ctx context.Context, id domain.TaskID, photos ...domain.Photo) (domain.PPMTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.PPMTask{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	task := s.tasks[i].Clone()
	task.Photos = append(task.Photos, photos...)
	err := s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		tasks[i] = task
		return tasks
	})
	if err != nil {
		return domain.PPMTask{}, err
	}
	return task.Clone(), nil
}

// RemovePhoto removes the photo at index from a task.
func (s *PPMStore) RemovePhoto(ctx context.Context, id domain.TaskID, index int) (domain.PPMTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.PPMTask{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	task := s.tasks[i].Clone()
	if index < 0 || index >= len(task.Photos) {
		return domain.PPMTask{}, fmt.Errorf("%w: photo index %d out of range (task has %d)",
			domain.ErrValidation, index, len(task.Photos))
	}
	task.Photos = slices.Delete(task.Photos, index, index+1)
	err := s.mutate(ctx, func(tasks []domain.PPMTask) []domain.PPMTask {
		tasks[i] = task
		return tasks
	})
	if err != nil {
		return domain.PPMTask{}, err
	}
	return task.Clone(), nil
}

// History returns tasks that have been completed at least once, most recent
// completion first. A limit of zero or less means DefaultHistoryLimit.
func (s *PPMStore) History(limit int) []domain.PPMTask {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	s.mu.RLock()
	var done []domain.PPMTask
	for _, t := range s.tasks {
		if t.LastCompleted != nil {
			done = append(done, t.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(done, func(a, b domain.PPMTask) int {
		return b.LastCompleted.Compare(*a.LastCompleted)
	})
	if len(done) > limit {
		done = done[:limit]
	}
	return done
}

// Import merges tasks into the store. A task whose id already exists replaces
// the stored record in place; the rest are inserted at the front in the given
// order. Tasks without an id get a new one. Tasks with an invalid due date are skipped.
func (s *PPMStore) Import(ctx context.Context, tasks []domain.PPMTask) (added, updated, skipped int, err error) {
	valid, skipped, err := s.admit(ctx, tasks)
	if err != nil {
		return 0, 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []domain.PPMTask
	replace := make(map[int]domain.PPMTask)
	for _, t := range valid {
		if i := s.indexOf(t.ID); i >= 0 {
			replace[i] = t
			continue
		}
		fresh = append(fresh, t)
	}

	err = s.mutate(ctx, func(current []domain.PPMTask) []domain.PPMTask {
		for i, t := range replace {
			current[i] = t
		}
		return slices.Insert(current, 0, fresh...)
	})
	if err != nil {
		return 0, 0, 0, err
	}
	return len(fresh), len(replace), skipped, nil
}

// Replace discards every stored task and stores tasks instead, with the same
// admission rules as Import.
func (s *PPMStore) Replace(ctx context.Context, tasks []domain.PPMTask) (stored, skipped int, err error) {
	valid, skipped, err := s.admit(ctx, tasks)
	if err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.mutate(ctx, func([]domain.PPMTask) []domain.PPMTask {
		return valid
	})
	if err != nil {
		return 0, 0, err
	}
	s.pending = 0
	return len(valid), skipped, nil
}

// admit validates a batch: invalid due dates are skipped, missing or repeated
// ids are replaced with fresh ones.
func (s *PPMStore) admit(ctx context.Context, tasks []domain.PPMTask) ([]domain.PPMTask, int, error) {
	seen := make(map[domain.TaskID]bool, len(tasks))
	valid := make([]domain.PPMTask, 0, len(tasks))
	skipped := 0

	for _, t := range tasks {
		if !domain.IsValidDate(t.DueDate) {
			s.logger.WarnContext(ctx, "skipping imported task with invalid due date",
				"id", t.ID, "description", t.Description, "due_date", t.DueDate)
			skipped++
			continue
		}
		t = t.Clone()
		if t.ID == "" || seen[t.ID] {
			id, err := domain.NewTaskID()
			if err != nil {
				return nil, 0, err
			}
			t.ID = id
		}
		seen[t.ID] = true
		t.Status = domain.ManualStatus(cmp.Or(string(t.Status), string(domain.StatusNotStarted)))
		if t.Photos == nil {
			t.Photos = []domain.Photo{}
		}
		valid = append(valid, t)
	}
	return valid, skipped, nil
}

// mutate applies change to a copy of the task sequence and persists it.
// The in-memory state only moves forward once the slot has been written.
// Callers must hold s.mu.
func (s *PPMStore) mutate(ctx context.Context, change func([]domain.PPMTask) []domain.PPMTask) error {
	next := change(slices.Clone(s.tasks))
	if err := saveSlot(ctx, s.storage, s.key, next); err != nil {
		return err
	}
	s.tasks = next
	s.pending = 0
	return nil
}

func (s *PPMStore) indexOf(id domain.TaskID) int {
	return slices.IndexFunc(s.tasks, func(t domain.PPMTask) bool { return t.ID == id })
}

func validateDueDate(due string) error {
	if _, err := domain.ParseDate(due); err != nil {
		return fmt.Errorf("%w: due date: %w", domain.ErrValidation, err)
	}
	return nil
}

func cloneAll(tasks []domain.PPMTask) []domain.PPMTask {
	out := make([]domain.PPMTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
