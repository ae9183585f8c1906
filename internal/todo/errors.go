package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLabel is returned when a label is empty after trimming.
	ErrEmptyLabel = errors.New("please enter a task label")

	// ErrBusy is returned when a single-flight operation is already running.
	ErrBusy = errors.New("operation already in progress")

	// ErrTaskNotFound is returned for an id that is not in the list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMissingID is returned when a create response carries no id.
	ErrMissingID = errors.New("response has no task id")

	// ErrClosed is returned by operations that finish after Close.
	ErrClosed = errors.New("task list closed")
)

// OpError is a failed remote operation. Message is ready for display.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string { return e.Message }

func (e *OpError) Unwrap() error { return e.Err }

// ClearError aggregates the failed deletes of one ClearCompleted call.
type ClearError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("could not delete %d of %d completed task(s)", e.Failed, e.Total)
}

func (e *ClearError) Unwrap() []error { return e.Errs }
