package todo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/service"
	"todo/internal/testutil"
	"todo/internal/todo"
)

const user = "alice"

// newList loads a list for user from a fake store holding tasks.
func newList(t *testing.T, tasks ...service.Task) (*todo.List, *testutil.FakeService) {
	t.Helper()
	fake := testutil.NewFakeService()
	fake.AddUser(user, tasks...)
	l := todo.New(fake, todo.Options{Username: user})
	t.Cleanup(l.Close)
	require.NoError(t, l.Load(context.Background()))
	return l, fake
}

// gate holds calls of one operation in flight until released.
type gate struct {
	op      string
	entered chan struct{}
	release chan struct{}
}

func newGate(op string) *gate {
	return &gate{op: op, entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) hook(ctx context.Context, op string) {
	if op != g.op {
		return
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
	}
}

func (g *gate) wait(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", g.op)
	}
}

func TestLoad_ExistingUser(t *testing.T) {
	l, fake := newList(t,
		service.Task{ID: 1, Label: "A"},
		service.Task{ID: 2, Label: "B", IsDone: true},
	)

	assert.True(t, l.Loaded())
	assert.Equal(t, []service.Task{{ID: 1, Label: "A"}, {ID: 2, Label: "B", IsDone: true}}, l.Tasks())
	assert.Equal(t, todo.Counts{Active: 1, Completed: 1}, l.Counts())
	assert.Equal(t, 0, fake.Calls(testutil.OpCreateUser))
}

func TestLoad_CreatesMissingUser(t *testing.T) {
	fake := testutil.NewFakeService()
	l := todo.New(fake, todo.Options{Username: user})
	defer l.Close()

	assert.False(t, l.Loaded())
	require.NoError(t, l.Load(context.Background()))

	assert.True(t, l.Loaded())
	assert.Empty(t, l.Tasks())
	assert.True(t, fake.HasUser(user))
	assert.Equal(t, 1, fake.Calls(testutil.OpCreateUser))
}

func TestLoad_FailureLeavesEmptyList(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddUser(user, service.Task{ID: 1, Label: "A"})
	fake.GetUserErr = testutil.HTTPError(500, "Internal Server Error")
	l := todo.New(fake, todo.Options{Username: user})
	defer l.Close()

	err := l.Load(context.Background())

	var opErr *todo.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "load", opErr.Op)
	assert.Equal(t, "Failed to load tasks for alice - Internal Server Error", opErr.Error())
	assert.True(t, l.Loaded())
	assert.Empty(t, l.Tasks())
}

func TestLoad_CreateUserFailure(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.CreateUserErr = errors.New("connection refused")
	l := todo.New(fake, todo.Options{Username: user})
	defer l.Close()

	err := l.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to create user alice - connection refused", err.Error())
	assert.Empty(t, l.Tasks())
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	l, _ := newList(t,
		service.Task{ID: 1, Label: "first"},
		service.Task{ID: 1, Label: "again"},
		service.Task{ID: 2, Label: "B"},
	)

	assert.Equal(t, []service.Task{{ID: 1, Label: "first"}, {ID: 2, Label: "B"}}, l.Tasks())
}

func TestTasks_ReturnsCopy(t *testing.T) {
	l, _ := newList(t, service.Task{ID: 1, Label: "A"})

	tasks := l.Tasks()
	tasks[0].Label = "mutated"

	got, ok := l.Find(1)
	require.True(t, ok)
	assert.Equal(t, "A", got.Label)
}

func TestClose_IgnoresLateCompletion(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 3, Label: "X"})
	g := newGate(testutil.OpUpdateTask)
	fake.Hook = g.hook

	errc := make(chan error, 1)
	go func() {
		_, err := l.Toggle(context.Background(), 3)
		errc <- err
	}()
	g.wait(t)

	l.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, todo.ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("toggle did not return after Close")
	}

	_, err := l.Toggle(context.Background(), 3)
	assert.ErrorIs(t, err, todo.ErrClosed)
}

func TestChanged_SignalsLocalChanges(t *testing.T) {
	l, _ := newList(t, service.Task{ID: 1, Label: "A"})

	// drain the signal left by Load
	select {
	case <-l.Changed():
	default:
	}

	_, err := l.Toggle(context.Background(), 1)
	require.NoError(t, err)

	select {
	case <-l.Changed():
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after toggle")
	}
}
