package todo

import (
	"context"
	"strings"

	"todo/internal/service"
)

// EditSession is one Editing period of one task.
// Only the first SaveEdit or CancelEdit of a session takes effect.
type EditSession struct {
	TaskID   int
	Original string
	seq      uint64
}

// EditOutcome says what a SaveEdit did.
type EditOutcome int

const (
	// EditStale means the session had already ended; nothing happened.
	EditStale EditOutcome = iota
	// EditAborted means the text was empty; the label is unchanged.
	EditAborted
	// EditUnchanged means the text equals the label; no request was sent.
	EditUnchanged
	// EditSaved means the store accepted the new label.
	EditSaved
	// EditFailed means the store rejected it and the label was restored.
	EditFailed
)

func (o EditOutcome) String() string {
	switch o {
	case EditStale:
		return "stale"
	case EditAborted:
		return "aborted"
	case EditUnchanged:
		return "unchanged"
	case EditSaved:
		return "saved"
	case EditFailed:
		return "failed"
	}
	return "unknown"
}

// BeginEdit enters Editing for id and captures its current label.
// A session begun later for the same task supersedes this one.
func (l *List) BeginEdit(id int) (EditSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return EditSession{}, ErrClosed
	}
	i := l.index(id)
	if i < 0 {
		return EditSession{}, ErrTaskNotFound
	}
	l.editSeq++
	l.edits[id] = l.editSeq
	return EditSession{TaskID: id, Original: l.tasks[i].Label, seq: l.editSeq}, nil
}

// Editing reports whether id has an open edit session.
func (l *List) Editing(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.edits[id]
	return ok
}

// CancelEdit leaves Editing without saving. It reports whether s was
// still open.
func (l *List) CancelEdit(s EditSession) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.current(s) {
		return false
	}
	delete(l.edits, s.TaskID)
	return true
}

// SaveEdit ends s and saves text as the task's label.
//
// Enter and loss of focus may both call SaveEdit for the same session;
// only the first call acts, later ones return EditStale. Empty text aborts
// with ErrEmptyLabel. Text equal to the label ends the session without a
// request. Otherwise the label changes immediately, the full record is
// sent, and a rejected update restores the previous label.
func (l *List) SaveEdit(ctx context.Context, s EditSession, text string) (EditOutcome, error) {
	label := strings.TrimSpace(text)
	outcome := EditStale
	var before string
	var done bool

	err := l.mutate(ctx, mutation{
		op:      "edit",
		failMsg: "Failed to update task",
		apply: func() error {
			if !l.current(s) {
				return errSkip
			}
			delete(l.edits, s.TaskID)
			i := l.index(s.TaskID)
			if i < 0 {
				outcome = EditAborted
				return ErrTaskNotFound
			}
			if label == "" {
				outcome = EditAborted
				return ErrEmptyLabel
			}
			if label == l.tasks[i].Label {
				outcome = EditUnchanged
				return errSkip
			}
			before = l.tasks[i].Label
			done = l.tasks[i].IsDone
			l.tasks[i].Label = label
			l.touch()
			outcome = EditFailed
			return nil
		},
		remote: func(ctx context.Context) (service.TaskReply, error) {
			return l.svc.UpdateTask(ctx, s.TaskID, service.Draft{Label: label, IsDone: done})
		},
		reconcile: func(reply service.TaskReply) {
			outcome = EditSaved
			l.reconcile(s.TaskID, reply)
		},
		revert: func() {
			if t := l.record(s.TaskID); t != nil && t.Label == label {
				t.Label = before
				l.touch()
			}
		},
	})
	return outcome, err
}

// current reports whether s is the open session of its task. Callers hold l.mu.
func (l *List) current(s EditSession) bool {
	seq, ok := l.edits[s.TaskID]
	return ok && s.seq != 0 && seq == s.seq
}
