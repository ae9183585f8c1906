package todo

import (
	"context"
	"errors"

	"todo/internal/apierr"
	"todo/internal/service"
)

// errSkip ends a mutation after apply without a remote call.
var errSkip = errors.New("skip")

// mutation is one optimistic change.
//
// apply, reconcile and revert run with l.mu held; remote runs without it.
// apply makes the local change and may refuse by returning an error
// (errSkip refuses silently). Exactly one of reconcile or revert runs
// after remote returns.
type mutation struct {
	op        string
	failMsg   string
	apply     func() error
	remote    func(ctx context.Context) (service.TaskReply, error)
	reconcile func(reply service.TaskReply)
	revert    func()
}

// mutate runs m: local delta, remote call, then reconcile or revert.
// Remote failures come back as *OpError after the revert has been applied.
func (l *List) mutate(ctx context.Context, m mutation) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if err := m.apply(); err != nil {
		l.mu.Unlock()
		if errors.Is(err, errSkip) {
			return nil
		}
		return err
	}
	l.mu.Unlock()

	ctx, done := l.opContext(ctx)
	reply, err := m.remote(ctx)
	done()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.logger.Debug("ignoring late completion", "op", m.op)
		return ErrClosed
	}
	if err != nil {
		m.revert()
		l.logger.Warn("reverted", "op", m.op, "err", err)
		return &OpError{Op: m.op, Message: apierr.Message(err, m.failMsg), Err: err}
	}
	if m.reconcile != nil {
		m.reconcile(reply)
	}
	return nil
}

// reconcile overlays the store's reply onto the local record of id.
// The id itself is never taken from the reply. Callers hold l.mu.
func (l *List) reconcile(id int, reply service.TaskReply) (service.Task, bool) {
	t := l.record(id)
	if t == nil {
		return service.Task{}, false
	}
	merged := reply.Merge(*t)
	merged.ID = id
	if merged != *t {
		*t = merged
		l.touch()
	}
	return merged, true
}
