// Package service defines the backend-agnostic interface for the remote task store.
package service

// Task represents a single task record.
type Task struct {
	ID     int    `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	IsDone bool   `json:"is_done" yaml:"is_done"`
}

// Draft is the full writable body of a task, as sent on create and update.
type Draft struct {
	Label  string `json:"label"`
	IsDone bool   `json:"is_done"`
}

// Draft returns the writable fields of t.
func (t Task) Draft() Draft {
	return Draft{Label: t.Label, IsDone: t.IsDone}
}

// TaskReply is a task record decoded from a create or update response.
// Nil fields were absent from the response body.
type TaskReply struct {
	ID     *int    `json:"id"`
	Label  *string `json:"label"`
	IsDone *bool   `json:"is_done"`
}

// Merge overlays the fields present in r onto t.
// Absent fields keep the value from t.
func (r TaskReply) Merge(t Task) Task {
	if r.ID != nil {
		t.ID = *r.ID
	}
	if r.Label != nil {
		t.Label = *r.Label
	}
	if r.IsDone != nil {
		t.IsDone = *r.IsDone
	}
	return t
}
