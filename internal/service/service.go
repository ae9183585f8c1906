// Package service defines the backend-agnostic interface for the remote task store.
package service

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by GetUser when the store has no such user.
// Callers create the user in response.
var ErrUserNotFound = errors.New("user not found")

// Service defines the operations of the remote task store.
// All HTTP calls go through this interface.
// The todo package never imports the transport directly.
type Service interface {
	// GetUser returns the user's full task list in server order.
	// Returns ErrUserNotFound if the user does not exist yet.
	GetUser(ctx context.Context, username string) ([]Task, error)

	// CreateUser creates the user with an empty task list.
	CreateUser(ctx context.Context, username string) error

	// CreateTask creates a task for the user.
	// The reply carries the server-assigned id.
	CreateTask(ctx context.Context, username string, draft Draft) (TaskReply, error)

	// UpdateTask replaces a task's label and completion flag.
	// The store does not accept partial updates, so draft is always complete.
	UpdateTask(ctx context.Context, id int, draft Draft) (TaskReply, error)

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id int) error
}
