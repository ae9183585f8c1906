// Package apierr turns failed task store responses into human-readable messages.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return 0, false
}

// Message formats err for display, starting from defaultMessage.
//
// HTTP errors get the most informative field of their body appended
// (see Format). Any other error, such as a refused connection, gets its
// own text appended.
func Message(err error, defaultMessage string) string {
	if err == nil {
		return defaultMessage
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return Format(gerr.Code, gerr.Body, defaultMessage)
	}
	if defaultMessage == "" {
		return err.Error()
	}
	return defaultMessage + " - " + err.Error()
}

// Format builds the message for a response with the given status and body.
//
// The body is parsed as JSON first. The first of "detail", "label" (an
// array of strings) or "msg" that is informative is appended. Null, false,
// zero and empty values are not. Otherwise the
// raw body text is appended unless the message already contains it.
// An empty defaultMessage becomes "HTTP error! status: <code>".
func Format(code int, body, defaultMessage string) string {
	msg := defaultMessage
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", code)
	}
	text := strings.TrimSpace(body)

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		if detail := fields["detail"]; informative(detail) {
			return msg + " - " + render(detail)
		}
		if labels, ok := fields["label"].([]any); ok && informative(labels) {
			parts := make([]string, 0, len(labels))
			for _, l := range labels {
				parts = append(parts, render(l))
			}
			return msg + " - Label: " + strings.Join(parts, ", ")
		}
		if m := fields["msg"]; informative(m) {
			return msg + " - " + render(m)
		}
	}

	return appendRaw(msg, text)
}

func appendRaw(msg, text string) string {
	if text == "" || strings.Contains(msg, text) {
		return msg
	}
	return msg + " - " + text
}

func informative(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

// render prints strings bare and anything else as compact JSON.
func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
