// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"google.golang.org/api/googleapi"

	"todo/internal/service"
)

// Operation names used by FakeService for call counting and hooks.
const (
	OpGetUser    = "GetUser"
	OpCreateUser = "CreateUser"
	OpCreateTask = "CreateTask"
	OpUpdateTask = "UpdateTask"
	OpDeleteTask = "DeleteTask"
)

// HTTPError builds the error the REST backend returns for a non-2xx response.
func HTTPError(code int, body string) error {
	return &googleapi.Error{Code: code, Body: body}
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	users  map[string][]service.Task
	nextID int
	calls  map[string]int

	// Error injection for testing
	GetUserErr    error
	CreateUserErr error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr map[int]error // task id -> error

	// UpdateReply, when set, replaces the reply of a successful update.
	UpdateReply func(id int, draft service.Draft) service.TaskReply

	// Hook runs at the start of every call, outside the lock.
	// Tests block in it to hold a request in flight.
	Hook func(ctx context.Context, op string)
}

// NewFakeService creates an empty FakeService. Ids start at 1.
func NewFakeService() *FakeService {
	return &FakeService{
		users:         make(map[string][]service.Task),
		nextID:        1,
		calls:         make(map[string]int),
		DeleteTaskErr: make(map[int]error),
	}
}

// AddUser creates a user with the given tasks.
// Tasks with a zero id get the next free id.
func (f *FakeService) AddUser(username string, tasks ...service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == 0 {
			t.ID = f.nextID
		}
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
		list = append(list, t)
	}
	f.users[username] = list
}

// Tasks returns the stored tasks of a user.
func (f *FakeService) Tasks(username string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.users[username])
}

// HasUser reports whether the user exists.
func (f *FakeService) HasUser(username string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok
}

// Calls returns how many times op was called.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) enter(ctx context.Context, op string) {
	f.mu.Lock()
	f.calls[op]++
	hook := f.Hook
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, op)
	}
}

// GetUser implements service.Service.
func (f *FakeService) GetUser(ctx context.Context, username string) ([]service.Task, error) {
	f.enter(ctx, OpGetUser)
	if f.GetUserErr != nil {
		return nil, f.GetUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.users[username]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return slices.Clone(tasks), nil
}

// CreateUser implements service.Service.
func (f *FakeService) CreateUser(ctx context.Context, username string) error {
	f.enter(ctx, OpCreateUser)
	if f.CreateUserErr != nil {
		return f.CreateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return HTTPError(400, fmt.Sprintf(`{"detail":"User %s already exists."}`, username))
	}
	f.users[username] = []service.Task{}
	return nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, username string, draft service.Draft) (service.TaskReply, error) {
	f.enter(ctx, OpCreateTask)
	if f.CreateTaskErr != nil {
		return service.TaskReply{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; !ok {
		return service.TaskReply{}, HTTPError(404, fmt.Sprintf(`{"detail":"User %s doesn't exist."}`, username))
	}
	t := service.Task{ID: f.nextID, Label: draft.Label, IsDone: draft.IsDone}
	f.nextID++
	f.users[username] = append(f.users[username], t)
	return replyOf(t), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, draft service.Draft) (service.TaskReply, error) {
	f.enter(ctx, OpUpdateTask)
	if f.UpdateTaskErr != nil {
		return service.TaskReply{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, i := f.locate(id)
	if i < 0 {
		return service.TaskReply{}, HTTPError(404, fmt.Sprintf(`{"detail":"Todo with id %d doesn't exist."}`, id))
	}
	f.users[user][i].Label = draft.Label
	f.users[user][i].IsDone = draft.IsDone
	if f.UpdateReply != nil {
		return f.UpdateReply(id, draft), nil
	}
	return replyOf(f.users[user][i]), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.enter(ctx, OpDeleteTask)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteTaskErr[id]; err != nil {
		return err
	}
	user, i := f.locate(id)
	if i < 0 {
		return HTTPError(404, fmt.Sprintf(`{"detail":"Todo with id %d doesn't exist."}`, id))
	}
	f.users[user] = slices.Delete(f.users[user], i, i+1)
	return nil
}

// SetDeleteErr makes deletes of id fail with err; nil clears it.
func (f *FakeService) SetDeleteErr(id int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.DeleteTaskErr, id)
		return
	}
	f.DeleteTaskErr[id] = err
}

func (f *FakeService) locate(id int) (string, int) {
	for user, tasks := range f.users {
		for i, t := range tasks {
			if t.ID == id {
				return user, i
			}
		}
	}
	return "", -1
}

func replyOf(t service.Task) service.TaskReply {
	return service.TaskReply{ID: &t.ID, Label: &t.Label, IsDone: &t.IsDone}
}
