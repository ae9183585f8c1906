// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"todo/internal/service"
)

// Format selects how task lists are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid format: %s (want text, json or yaml)", s)
}

// Numbered is a task with its 1-based position in the full list.
type Numbered struct {
	Num  int
	Task service.Task
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {LABEL}  #{ID}\n" (4-wide right-aligned number, checkbox, label, store id)
func FormatTask(w io.Writer, num int, task service.Task) {
	box := "[ ]"
	if task.IsDone {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s  #%d\n", num, box, normalizeLabel(task.Label), task.ID)
}

// FormatSummary formats the footer line: "N items left, M completed".
func FormatSummary(w io.Writer, active, completed int) {
	noun := "items"
	if active == 1 {
		noun = "item"
	}
	fmt.Fprintf(w, "%d %s left, %d completed\n", active, noun, completed)
}

// WriteTasks writes tasks in the requested format.
// Text output numbers each task; JSON and YAML carry the store records.
func WriteTasks(w io.Writer, format Format, tasks []Numbered) error {
	switch format {
	case FormatJSON:
		records := make([]service.Task, len(tasks))
		for i, n := range tasks {
			records[i] = n.Task
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		records := make([]service.Task, len(tasks))
		for i, n := range tasks {
			records[i] = n.Task
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, n := range tasks {
			FormatTask(w, n.Num, n.Task)
		}
		return nil
	}
}

// normalizeLabel normalizes a task label for display.
// - Empty or whitespace-only labels become "(untitled)"
// - Newlines are replaced with spaces
func normalizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")

	if strings.TrimSpace(label) == "" {
		return "(untitled)"
	}
	return label
}
