package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aglmct/tracker/internal/core"
	"github.com/aglmct/tracker/internal/domain"
)

// CMStore owns the corrective maintenance work orders.
type CMStore struct {
	storage core.Storage
	key     string
	now     func() time.Time
	logger  *slog.Logger

	mu    sync.RWMutex
	tasks []domain.CMTask
}

// NewCMStore creates an empty CM store. Call Load to read the slot.
func NewCMStore(storage core.Storage, config Config) *CMStore {
	config = config.withDefaults(DefaultCMKey)
	return &CMStore{
		storage: storage,
		key:     config.Key,
		now:     config.Now,
		logger:  config.Logger,
	}
}

// Load replaces the in-memory work orders with the slot contents.
func (s *CMStore) Load(ctx context.Context) error {
	tasks, err := loadSlot[domain.CMTask](ctx, s.storage, s.key, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return nil
}

// Add validates the reported date and inserts a new work order at the front.
func (s *CMStore) Add(ctx context.Context, fields domain.CMFields) (domain.CMTask, error) {
	if _, err := domain.ParseDate(fields.DateReported); err != nil {
		return domain.CMTask{}, fmt.Errorf("%w: date reported: %w", domain.ErrValidation, err)
	}

	id, err := domain.NewTaskID()
	if err != nil {
		return domain.CMTask{}, err
	}

	task := domain.CMTask{
		ID:           id,
		WorkOrder:    fields.WorkOrder,
		Description:  fields.Description,
		ReportedBy:   fields.ReportedBy,
		DateReported: fields.DateReported,
		Status:       domain.NewCMStatus(string(fields.Status)),
		AssignedTo:   fields.AssignedTo,
		Priority:     fields.Priority,
		Location:     fields.Location,
		CreatedDate:  s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Insert(slices.Clone(s.tasks), 0, task)
	if err := saveSlot(ctx, s.storage, s.key, next); err != nil {
		return domain.CMTask{}, err
	}
	s.tasks = next
	return task, nil
}

// Get returns the work order with the given id.
func (s *CMStore) Get(id domain.TaskID) (domain.CMTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.CMTask{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return s.tasks[i], nil
}

// Delete removes a work order and reports whether it existed.
func (s *CMStore) Delete(ctx context.Context, id domain.TaskID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := saveSlot(ctx, s.storage, s.key, next); err != nil {
		return false, err
	}
	s.tasks = next
	return true, nil
}

// Resolve maps a full id or a unique id tail to a work order id.
func (s *CMStore) Resolve(ref string) (domain.TaskID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.TaskID, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return resolveID(ids, ref)
}

// List returns all work orders, newest first.
func (s *CMStore) List() []domain.CMTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

// Filter returns work orders with the given status ("All" or empty disables
// the filter) whose work order, description, location, reporter or assignee
// contains searchText caselessly.
func (s *CMStore) Filter(status, searchText string) []domain.CMTask {
	m := newMatcher(searchText)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CMTask
	for _, t := range s.tasks {
		if !isAll(status) && string(t.Status) != status {
			continue
		}
		if !m.matches(t.WorkOrder, t.Description, t.Location, t.ReportedBy, t.AssignedTo) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *CMStore) indexOf(id domain.TaskID) int {
	return slices.IndexFunc(s.tasks, func(t domain.CMTask) bool { return t.ID == id })
}
