package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/todo"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Position int  // 1-based position in the full list, when ByID is false
	ID       int  // store id, when ByID is true
	ByID     bool // true if the reference was written as #<id>
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first argument.
//
// Parsing rules:
// 1. All digits (e.g., 3) → position in the full list, as printed by list
// 2. '#' followed by digits (e.g., #17) → store id
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Position: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, "#"); ok && isAllDigits(id) {
		num, err := strconv.Atoi(id)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: num, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// String formats the reference the way it is written on the command line.
func (r TaskRef) String() string {
	if r.ByID {
		return "#" + strconv.Itoa(r.ID)
	}
	return strconv.Itoa(r.Position)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Resolve finds the task ref points at in l.
func (r TaskRef) Resolve(l *todo.List) (service.Task, error) {
	if r.ByID {
		t, ok := l.Find(r.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: #%d", r.ID)
		}
		return t, nil
	}

	tasks := l.Tasks()
	if r.Position < 1 || r.Position > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", r.Position)
	}
	return tasks[r.Position-1], nil
}

// resolveFailed reports a reference that did not parse.
func resolveFailed(err error, errOut io.Writer) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}
