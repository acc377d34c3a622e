package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	mu      sync.Mutex
	byName  map[string]*domain.User
	failErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: make(map[string]*domain.User)}
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if _, exists := s.byName[user.Username]; exists {
		return store.ErrUsernameExists
	}
	u := *user
	s.byName[user.Username] = &u
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byName {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, u := range s.byName {
		if u.ID == id {
			delete(s.byName, name)
			return nil
		}
	}
	return store.ErrUserNotFound
}

// fakeTaskStore is an in-memory TaskStore honoring the store contract:
// generated ascending IDs, insert-time defaulting, insertion-order listings.
type fakeTaskStore struct {
	mu     sync.Mutex
	byID   map[int64]*domain.Task
	nextID int64
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{byID: make(map[int64]*domain.Task), nextID: 1}
}

var _ store.TaskStore = (*fakeTaskStore)(nil)

func (s *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	t := *task
	s.byID[task.ID] = &t
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (s *fakeTaskStore) FindByOwner(
	_ context.Context,
	ownerID uuid.UUID,
) ([]*domain.Task, error) {
	return s.find(func(t *domain.Task) bool {
		return t.OwnerID != nil && *t.OwnerID == ownerID
	}), nil
}

func (s *fakeTaskStore) FindByOwnerAndStatus(
	_ context.Context,
	ownerID uuid.UUID,
	status domain.Status,
) ([]*domain.Task, error) {
	return s.find(func(t *domain.Task) bool {
		return t.OwnerID != nil && *t.OwnerID == ownerID && t.Status == status
	}), nil
}

func (s *fakeTaskStore) find(match func(*domain.Task) bool) []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Task, 0)
	for _, t := range s.byID {
		if match(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeTaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.DueDate = task.DueDate
	existing.Status = task.Status
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.byID, id)
	return nil
}
