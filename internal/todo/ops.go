package todo

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"todo/internal/apierr"
	"todo/internal/service"
)

// Add creates a task with the trimmed label and appends the store's record.
//
// Add is not optimistic: nothing changes locally until the store has
// assigned an id. Only one Add runs at a time; a concurrent call gets
// ErrBusy.
func (l *List) Add(ctx context.Context, label string) (service.Task, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return service.Task{}, ErrEmptyLabel
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return service.Task{}, ErrClosed
	}
	if l.adding {
		l.mu.Unlock()
		return service.Task{}, ErrBusy
	}
	l.adding = true
	l.notify()
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.adding = false
		l.notify()
		l.mu.Unlock()
	}()

	opCtx, done := l.opContext(ctx)
	reply, err := l.svc.CreateTask(opCtx, l.opts.Username, service.Draft{Label: label})
	done()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return service.Task{}, ErrClosed
	}
	if err != nil {
		l.logger.Warn("add failed", "err", err)
		return service.Task{}, &OpError{Op: "add", Message: apierr.Message(err, "Failed to add task"), Err: err}
	}
	if reply.ID == nil {
		return service.Task{}, &OpError{Op: "add", Message: apierr.Message(ErrMissingID, "Failed to add task"), Err: ErrMissingID}
	}

	task := reply.Merge(service.Task{Label: label})
	l.upsert(task)
	l.logger.Debug("added", "id", task.ID)
	return task, nil
}

// Toggle flips the completion flag of id, optimistically.
// The full record is sent because the store has no partial update.
// On failure the flag is restored.
func (l *List) Toggle(ctx context.Context, id int) (service.Task, error) {
	var before, sent, result service.Task
	err := l.mutate(ctx, mutation{
		op:      "toggle",
		failMsg: "Failed to update task",
		apply: func() error {
			i := l.index(id)
			if i < 0 {
				return ErrTaskNotFound
			}
			before = l.tasks[i]
			sent = before
			sent.IsDone = !before.IsDone
			l.tasks[i].IsDone = sent.IsDone
			l.touch()
			return nil
		},
		remote: func(ctx context.Context) (service.TaskReply, error) {
			return l.svc.UpdateTask(ctx, id, sent.Draft())
		},
		reconcile: func(reply service.TaskReply) {
			var ok bool
			if result, ok = l.reconcile(id, reply); !ok {
				result = reply.Merge(sent)
				result.ID = id
			}
		},
		revert: func() {
			if t := l.record(id); t != nil {
				t.IsDone = before.IsDone
				l.touch()
			}
		},
	})
	return result, err
}

// Delete removes id optimistically and asks the store to delete it.
//
// On failure the list is restored as it was before the call. If other
// changes landed in the meantime, the task is put back after the task that
// preceded it instead, so those changes survive. Reverts and reconciles of
// other operations on id that finish while the delete is in flight are
// applied to the removed record, so it comes back as the store last saw it.
func (l *List) Delete(ctx context.Context, id int) error {
	var (
		snapshot []service.Task
		removed  service.Task
		prevID   int
		hasPrev  bool
		oldIndex int
		after    uint64
	)
	return l.mutate(ctx, mutation{
		op:      "delete",
		failMsg: "Failed to delete task",
		apply: func() error {
			i := l.index(id)
			if i < 0 {
				return ErrTaskNotFound
			}
			snapshot = slices.Clone(l.tasks)
			removed = l.tasks[i]
			l.removing[id] = &removed
			oldIndex = i
			if i > 0 {
				prevID, hasPrev = l.tasks[i-1].ID, true
			}
			l.tasks = slices.Delete(l.tasks, i, i+1)
			delete(l.edits, id)
			l.touch()
			after = l.version
			return nil
		},
		remote: func(ctx context.Context) (service.TaskReply, error) {
			return service.TaskReply{}, l.svc.DeleteTask(ctx, id)
		},
		reconcile: func(service.TaskReply) {
			delete(l.removing, id)
		},
		revert: func() {
			delete(l.removing, id)
			if l.version == after {
				snapshot[oldIndex] = removed
				l.tasks = snapshot
				l.touch()
				return
			}
			if l.index(id) >= 0 {
				return
			}
			at := min(oldIndex, len(l.tasks))
			if hasPrev {
				if p := l.index(prevID); p >= 0 {
					at = p + 1
				}
			} else {
				at = 0
			}
			l.tasks = slices.Insert(l.tasks, at, removed)
			l.touch()
		},
	})
}

// ClearResult reports the outcome of ClearCompleted.
type ClearResult struct {
	Deleted []int
	Failed  []int
}

// ClearCompleted deletes every completed task, concurrently.
//
// Every delete runs to completion; a failure does not stop the others.
// Exactly the deleted ids leave the list. When some deletes fail the
// error is a *ClearError and the successful deletions stand.
// It does nothing when no task is completed and returns ErrBusy while
// another clear is running.
func (l *List) ClearCompleted(ctx context.Context) (ClearResult, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ClearResult{}, ErrClosed
	}
	if l.clearing {
		l.mu.Unlock()
		return ClearResult{}, ErrBusy
	}
	var ids []int
	for _, t := range l.tasks {
		if t.IsDone {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		l.mu.Unlock()
		return ClearResult{}, nil
	}
	l.clearing = true
	l.notify()
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.clearing = false
		l.notify()
		l.mu.Unlock()
	}()

	l.logger.Debug("clearing completed", "count", len(ids))

	opCtx, done := l.opContext(ctx)
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(l.opts.MaxParallelDeletes)
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = l.svc.DeleteTask(opCtx, id)
			return nil
		})
	}
	_ = g.Wait()
	done()

	var res ClearResult
	var failures []error
	deleted := make(map[int]bool, len(ids))
	for i, id := range ids {
		if errs[i] != nil {
			l.logger.Warn("delete failed", "id", id, "err", errs[i])
			res.Failed = append(res.Failed, id)
			failures = append(failures, errs[i])
			continue
		}
		res.Deleted = append(res.Deleted, id)
		deleted[id] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return res, ErrClosed
	}
	if len(deleted) > 0 {
		l.tasks = slices.DeleteFunc(l.tasks, func(t service.Task) bool { return deleted[t.ID] })
		for id := range deleted {
			delete(l.edits, id)
		}
		l.touch()
	}
	if len(failures) > 0 {
		return res, &ClearError{Failed: len(failures), Total: len(ids), Errs: failures}
	}
	return res, nil
}
