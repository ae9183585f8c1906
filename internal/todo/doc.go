// Package todo keeps the in-memory task list in sync with the remote task
// store.
//
// A List is the single source of truth for rendering. Toggle, SaveEdit and
// Delete change the list before the store confirms and undo the change if
// the store rejects it. Add only changes the list once the store has
// assigned an id. ClearCompleted deletes concurrently and keeps whatever
// the store failed to delete.
//
// All methods are safe for concurrent use. The list lock is never held
// across a network call.
package todo
