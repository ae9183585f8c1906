package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"todo/internal/apierr"
	"todo/internal/service"
)

// DefaultMaxParallelDeletes bounds ClearCompleted when Options leaves it unset.
const DefaultMaxParallelDeletes = 8

// Options configures a List.
type Options struct {
	// Username owns the list on the store.
	Username string

	// Logger receives operation logs. Nil discards them.
	Logger *log.Logger

	// MaxParallelDeletes bounds concurrent deletes in ClearCompleted.
	MaxParallelDeletes int
}

// Counts summarizes the list for footers and status output.
type Counts struct {
	Active    int
	Completed int
}

// List is the client-side task list.
type List struct {
	svc    service.Service
	opts   Options
	logger *log.Logger

	life   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	tasks    []service.Task
	version  uint64 // bumped on every local change
	loaded   bool
	closed   bool
	adding   bool
	clearing bool
	editSeq  uint64
	edits    map[int]uint64        // task id -> open edit session
	removing map[int]*service.Task // records taken out by an in-flight Delete

	changed chan struct{}
}

// New creates an empty, unloaded list backed by svc.
func New(svc service.Service, opts Options) *List {
	if opts.MaxParallelDeletes < 1 {
		opts.MaxParallelDeletes = DefaultMaxParallelDeletes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	life, cancel := context.WithCancel(context.Background())
	return &List{
		svc:    svc,
		opts:   opts,
		logger: logger.With("component", "list"),
		life:   life,
		cancel: cancel,
		tasks:  []service.Task{},
		edits:  make(map[int]uint64),

		removing: make(map[int]*service.Task),
		changed:  make(chan struct{}, 1),
	}
}

// Username returns the owner of the list.
func (l *List) Username() string { return l.opts.Username }

// Load resolves the user and fetches the full task list.
//
// A user the store does not know is created and starts empty. On any
// failure the list is left empty and the returned error is an *OpError;
// the list still counts as loaded.
func (l *List) Load(ctx context.Context) error {
	ctx, done := l.opContext(ctx)
	defer done()

	user := l.opts.Username
	failMsg := fmt.Sprintf("Failed to load tasks for %s", user)

	tasks, err := l.svc.GetUser(ctx, user)
	if errors.Is(err, service.ErrUserNotFound) {
		l.logger.Info("user not found, creating", "user", user)
		tasks = nil
		failMsg = fmt.Sprintf("Failed to create user %s", user)
		err = l.svc.CreateUser(ctx, user)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.loaded = true
	l.tasks = []service.Task{}
	l.touch()

	if err != nil {
		l.logger.Warn("load failed", "user", user, "err", err)
		return &OpError{Op: "load", Message: apierr.Message(err, failMsg), Err: err}
	}

	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			l.logger.Warn("duplicate task id from store, keeping first", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		l.tasks = append(l.tasks, t)
	}
	l.logger.Debug("loaded", "user", user, "tasks", len(l.tasks))
	return nil
}

// Loaded reports whether Load has finished, successfully or not.
func (l *List) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Tasks returns a copy of the list in order.
func (l *List) Tasks() []service.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.tasks)
}

// Visible returns the tasks visible under f.
func (l *List) Visible(f Filter) []service.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Apply(l.tasks, f)
}

// Find returns the task with the given id.
func (l *List) Find(id int) (service.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.tasks[i], true
	}
	return service.Task{}, false
}

// Counts returns the number of active and completed tasks.
func (l *List) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()
	var c Counts
	for _, t := range l.tasks {
		if t.IsDone {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Adding reports whether an Add is in flight.
func (l *List) Adding() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adding
}

// Clearing reports whether a ClearCompleted is in flight.
func (l *List) Clearing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clearing
}

// Changed returns a channel that receives after local state changes.
// Bursts of changes may coalesce into one receive.
func (l *List) Changed() <-chan struct{} { return l.changed }

// Close ends the list's lifetime. In-flight requests are cancelled and
// operations that complete afterwards leave the list untouched.
func (l *List) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

// opContext derives a request context that is cancelled when either ctx
// or the list's lifetime ends.
func (l *List) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// index returns the position of id, or -1. Callers hold l.mu.
func (l *List) index(id int) int {
	return slices.IndexFunc(l.tasks, func(t service.Task) bool { return t.ID == id })
}

// record returns the local record of id, including one an in-flight Delete
// has taken out of the list, or nil. Callers hold l.mu.
func (l *List) record(id int) *service.Task {
	if i := l.index(id); i >= 0 {
		return &l.tasks[i]
	}
	return l.removing[id]
}

// touch records a local change. Callers hold l.mu.
func (l *List) touch() {
	l.version++
	l.notify()
}

// notify wakes a Changed listener without blocking.
func (l *List) notify() {
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

// upsert replaces the task with t.ID or appends t. Callers hold l.mu.
func (l *List) upsert(t service.Task) {
	if i := l.index(t.ID); i >= 0 {
		l.tasks[i] = t
	} else {
		l.tasks = append(l.tasks, t)
	}
	l.touch()
}
