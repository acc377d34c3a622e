package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/store"
)

type taskFixture struct {
	svc   service.TaskService
	tasks *fakeTaskStore
	users *fakeUserStore
	alice *domain.User
	bob   *domain.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	users := newFakeUserStore()
	tasks := newFakeTaskStore()

	alice, err := domain.NewUser("alice", "password123")
	require.NoError(t, err)
	alice.Password = ""
	alice.HashedPassword = "hash"
	require.NoError(t, users.Create(context.Background(), alice))

	bob, err := domain.NewUser("bob", "password123")
	require.NoError(t, err)
	bob.Password = ""
	bob.HashedPassword = "hash"
	require.NoError(t, users.Create(context.Background(), bob))

	return &taskFixture{
		svc:   service.NewTaskService(tasks, users, nil),
		tasks: tasks,
		users: users,
		alice: alice,
		bob:   bob,
	}
}

func (f *taskFixture) createTask(t *testing.T, owner, title string, due *time.Time) *domain.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), owner, title, "", due)
	require.NoError(t, err)
	return task
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	t.Run("assigns owner, defaults, and generated ID", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task := f.createTask(t, "alice", "write report", nil)

		assert.Positive(t, task.ID)
		assert.Equal(t, domain.StatusPending, task.Status)
		assert.False(t, task.CreatedAt.IsZero())
		require.NotNil(t, task.OwnerID)
		assert.Equal(t, f.alice.ID, *task.OwnerID)
	})

	t.Run("unknown principal", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(context.Background(), "nobody", "title", "", nil)
		assert.ErrorIs(t, err, service.ErrInvalidIdentity)
	})

	t.Run("empty principal", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(context.Background(), "", "title", "", nil)
		assert.ErrorIs(t, err, service.ErrInvalidIdentity)
	})

	t.Run("invalid title", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(context.Background(), "alice", "", "", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})
}

func TestTaskOwnershipMatrix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Every read/write path on an existing task runs the same ownership
	// check; exercise each through the matrix.
	operations := map[string]func(svc service.TaskService, user string, id int64) error{
		"get": func(svc service.TaskService, user string, id int64) error {
			_, err := svc.Get(ctx, user, id)
			return err
		},
		"update": func(svc service.TaskService, user string, id int64) error {
			title := "new title"
			_, err := svc.Update(ctx, user, id, service.UpdateTaskRequest{Title: &title})
			return err
		},
		"update status": func(svc service.TaskService, user string, id int64) error {
			_, err := svc.UpdateStatus(ctx, user, id, "DONE")
			return err
		},
		"delete": func(svc service.TaskService, user string, id int64) error {
			return svc.Delete(ctx, user, id)
		},
	}

	for opName, op := range operations {
		op := op
		t.Run(opName, func(t *testing.T) {
			t.Parallel()

			t.Run("owner allowed", func(t *testing.T) {
				f := newTaskFixture(t)
				task := f.createTask(t, "alice", "mine", nil)
				assert.NoError(t, op(f.svc, "alice", task.ID))
			})

			t.Run("foreign owner forbidden", func(t *testing.T) {
				f := newTaskFixture(t)
				task := f.createTask(t, "alice", "mine", nil)
				assert.ErrorIs(t, op(f.svc, "bob", task.ID), service.ErrTaskNotOwned)
			})

			t.Run("ownerless task denied", func(t *testing.T) {
				f := newTaskFixture(t)
				orphan := &domain.Task{Title: "orphan"}
				require.NoError(t, f.tasks.Create(ctx, orphan))
				assert.ErrorIs(t, op(f.svc, "alice", orphan.ID), service.ErrTaskNotOwned)
			})

			t.Run("missing task not found", func(t *testing.T) {
				f := newTaskFixture(t)
				assert.ErrorIs(t, op(f.svc, "alice", 999), store.ErrTaskNotFound)
			})

			t.Run("unresolvable identity", func(t *testing.T) {
				f := newTaskFixture(t)
				task := f.createTask(t, "alice", "mine", nil)
				assert.ErrorIs(t, op(f.svc, "ghost", task.ID), service.ErrInvalidIdentity)
			})
		})
	}
}

func TestTaskUpdatePartial(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTaskFixture(t)

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.svc.Create(ctx, "alice", "original title", "original description", &due)
	require.NoError(t, err)
	createdAt := task.CreatedAt

	t.Run("nil fields keep stored values", func(t *testing.T) {
		title := "updated title"
		updated, err := f.svc.Update(ctx, "alice", task.ID, service.UpdateTaskRequest{
			Title: &title,
		})
		require.NoError(t, err)

		assert.Equal(t, "updated title", updated.Title)
		assert.Equal(t, "original description", updated.Description)
		require.NotNil(t, updated.DueDate)
		assert.True(t, due.Equal(*updated.DueDate))
		assert.True(t, createdAt.Equal(updated.CreatedAt), "creation time is immutable")
	})

	t.Run("update never touches status or owner", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, "alice", task.ID, "IN_PROGRESS")
		require.NoError(t, err)

		desc := "new description"
		updated, err := f.svc.Update(ctx, "alice", task.ID, service.UpdateTaskRequest{
			Description: &desc,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusInProgress, updated.Status)
		require.NotNil(t, updated.OwnerID)
		assert.Equal(t, f.alice.ID, *updated.OwnerID)
	})
}

func TestTaskUpdateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("case-insensitive match", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task := f.createTask(t, "alice", "mine", nil)

		updated, err := f.svc.UpdateStatus(ctx, "alice", task.ID, "in_progress")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
	})

	t.Run("invalid status leaves task unmodified", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task := f.createTask(t, "alice", "mine", nil)

		_, err := f.svc.UpdateStatus(ctx, "alice", task.ID, "SHIPPED")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		reloaded, err := f.svc.Get(ctx, "alice", task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, reloaded.Status)
	})
}

func TestTaskList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	dateAt := func(day int) *time.Time {
		d := time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC)
		return &d
	}

	setup := func(t *testing.T) *taskFixture {
		t.Helper()
		f := newTaskFixture(t)
		f.createTask(t, "alice", "third due", dateAt(30))
		f.createTask(t, "alice", "first due", dateAt(1))
		f.createTask(t, "alice", "no due date", nil)
		f.createTask(t, "alice", "second due", dateAt(15))
		f.createTask(t, "bob", "bobs task", dateAt(2))
		return f
	}

	titles := func(tasks []*domain.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.Title)
		}
		return out
	}

	t.Run("only own tasks, insertion order by default", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"third due", "first due", "no due date", "second due"},
			titles(tasks))
	})

	t.Run("status filter", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		task := f.createTask(t, "alice", "done task", nil)
		_, err := f.svc.UpdateStatus(ctx, "alice", task.ID, "DONE")
		require.NoError(t, err)

		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{StatusFilter: "done"})
		require.NoError(t, err)
		assert.Equal(t, []string{"done task"}, titles(tasks))
	})

	t.Run("invalid status filter", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		_, err := f.svc.List(ctx, "alice", service.ListOptions{StatusFilter: "SHIPPED"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("sort due date ascending, nil due dates last", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{Sort: service.SortDueDateAsc})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"first due", "second due", "third due", "no due date"},
			titles(tasks))
	})

	t.Run("sort due date descending, nil due dates last", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{Sort: service.SortDueDateDesc})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"third due", "second due", "first due", "no due date"},
			titles(tasks))
	})

	t.Run("unknown sort keeps insertion order", func(t *testing.T) {
		t.Parallel()

		f := setup(t)
		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{Sort: "priority"})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"third due", "first due", "no due date", "second due"},
			titles(tasks))
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		tasks, err := f.svc.List(ctx, "alice", service.ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTaskFixture(t)
	task := f.createTask(t, "alice", "mine", nil)

	require.NoError(t, f.svc.Delete(ctx, "alice", task.ID))

	_, err := f.svc.Get(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
