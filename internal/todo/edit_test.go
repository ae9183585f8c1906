package todo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/service"
	"todo/internal/testutil"
	"todo/internal/todo"
)

func TestSaveEdit_SameLabelIsNoop(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})

	s, err := l.BeginEdit(5)
	require.NoError(t, err)
	assert.Equal(t, "A", s.Original)
	assert.True(t, l.Editing(5))

	outcome, err := l.SaveEdit(context.Background(), s, " A ")

	require.NoError(t, err)
	assert.Equal(t, todo.EditUnchanged, outcome)
	assert.False(t, l.Editing(5))
	assert.Equal(t, 0, fake.Calls(testutil.OpUpdateTask))
}

func TestSaveEdit_EmptyAborts(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	outcome, err := l.SaveEdit(context.Background(), s, "   ")

	assert.ErrorIs(t, err, todo.ErrEmptyLabel)
	assert.Equal(t, todo.EditAborted, outcome)
	assert.False(t, l.Editing(5))
	got, _ := l.Find(5)
	assert.Equal(t, "A", got.Label)
	assert.Equal(t, 0, fake.Calls(testutil.OpUpdateTask))
}

func TestSaveEdit_Success(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A", IsDone: true})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	outcome, err := l.SaveEdit(context.Background(), s, "  B  ")

	require.NoError(t, err)
	assert.Equal(t, todo.EditSaved, outcome)
	assert.Equal(t, []service.Task{{ID: 5, Label: "B", IsDone: true}}, l.Tasks())
	assert.Equal(t, []service.Task{{ID: 5, Label: "B", IsDone: true}}, fake.Tasks(user))
}

func TestSaveEdit_FailureRestoresLabel(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	fake.UpdateTaskErr = testutil.HTTPError(422, `{"detail":"label too long"}`)
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	outcome, err := l.SaveEdit(context.Background(), s, "B")

	assert.Equal(t, todo.EditFailed, outcome)
	require.Error(t, err)
	assert.Equal(t, "Failed to update task - label too long", err.Error())
	got, _ := l.Find(5)
	assert.Equal(t, "A", got.Label)
	assert.False(t, l.Editing(5))
}

func TestSaveEdit_IsOptimistic(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	g := newGate(testutil.OpUpdateTask)
	fake.Hook = g.hook
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = l.SaveEdit(context.Background(), s, "B")
	}()
	g.wait(t)

	got, _ := l.Find(5)
	assert.Equal(t, "B", got.Label)
	assert.False(t, l.Editing(5), "editing ends before the store answers")

	close(g.release)
	<-done
}

func TestSaveEdit_OnlyFirstSaveOfSessionRuns(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	// Enter, then the blur that follows it.
	first, err := l.SaveEdit(context.Background(), s, "B")
	require.NoError(t, err)
	second, err := l.SaveEdit(context.Background(), s, "B")
	require.NoError(t, err)

	assert.Equal(t, todo.EditSaved, first)
	assert.Equal(t, todo.EditStale, second)
	assert.Equal(t, 1, fake.Calls(testutil.OpUpdateTask))
}

func TestSaveEdit_ConcurrentSavesRunOnce(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	outcomes := make(chan todo.EditOutcome, 2)
	for range 2 {
		go func() {
			o, _ := l.SaveEdit(context.Background(), s, "B")
			outcomes <- o
		}()
	}

	got := []todo.EditOutcome{<-outcomes, <-outcomes}
	assert.ElementsMatch(t, []todo.EditOutcome{todo.EditSaved, todo.EditStale}, got)
	assert.Equal(t, 1, fake.Calls(testutil.OpUpdateTask))
}

func TestCancelEdit(t *testing.T) {
	l, fake := newList(t, service.Task{ID: 5, Label: "A"})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	assert.True(t, l.CancelEdit(s))
	assert.False(t, l.CancelEdit(s))
	assert.False(t, l.Editing(5))

	outcome, err := l.SaveEdit(context.Background(), s, "B")
	require.NoError(t, err)
	assert.Equal(t, todo.EditStale, outcome)

	got, _ := l.Find(5)
	assert.Equal(t, "A", got.Label)
	assert.Equal(t, 0, fake.Calls(testutil.OpUpdateTask))
}

func TestBeginEdit_SupersedesOlderSession(t *testing.T) {
	l, _ := newList(t, service.Task{ID: 5, Label: "A"})
	old, err := l.BeginEdit(5)
	require.NoError(t, err)
	current, err := l.BeginEdit(5)
	require.NoError(t, err)

	outcome, err := l.SaveEdit(context.Background(), old, "stale")
	require.NoError(t, err)
	assert.Equal(t, todo.EditStale, outcome)
	assert.True(t, l.Editing(5))

	outcome, err = l.SaveEdit(context.Background(), current, "fresh")
	require.NoError(t, err)
	assert.Equal(t, todo.EditSaved, outcome)
	got, _ := l.Find(5)
	assert.Equal(t, "fresh", got.Label)
}

func TestEditSessions_AreIndependentPerTask(t *testing.T) {
	l, _ := newList(t, service.Task{ID: 5, Label: "A"}, service.Task{ID: 6, Label: "B"})
	s5, err := l.BeginEdit(5)
	require.NoError(t, err)
	s6, err := l.BeginEdit(6)
	require.NoError(t, err)

	_, err = l.Toggle(context.Background(), 6)
	require.NoError(t, err)

	o5, err := l.SaveEdit(context.Background(), s5, "A2")
	require.NoError(t, err)
	o6, err := l.SaveEdit(context.Background(), s6, "B2")
	require.NoError(t, err)

	assert.Equal(t, todo.EditSaved, o5)
	assert.Equal(t, todo.EditSaved, o6)
	assert.Equal(t, []service.Task{{ID: 5, Label: "A2"}, {ID: 6, Label: "B2", IsDone: true}}, l.Tasks())
}

func TestBeginEdit_NotFound(t *testing.T) {
	l, _ := newList(t)
	_, err := l.BeginEdit(5)
	assert.ErrorIs(t, err, todo.ErrTaskNotFound)
}

func TestDelete_EndsEditSession(t *testing.T) {
	l, _ := newList(t, service.Task{ID: 5, Label: "A"})
	s, err := l.BeginEdit(5)
	require.NoError(t, err)

	require.NoError(t, l.Delete(context.Background(), 5))

	outcome, err := l.SaveEdit(context.Background(), s, "B")
	require.NoError(t, err)
	assert.Equal(t, todo.EditStale, outcome)
}

func TestEditOutcome_String(t *testing.T) {
	assert.Equal(t, "saved", todo.EditSaved.String())
	assert.Equal(t, "stale", todo.EditStale.String())
	assert.Equal(t, "unknown", todo.EditOutcome(99).String())
}
