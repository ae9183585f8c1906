// Package rest implements the service.Service interface against the task
// store's REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todo/internal/config"
	"todo/internal/service"
)

// RequestIDHeader carries a per-request id that also appears in debug logs.
const RequestIDHeader = "X-Request-Id"

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	logger  *log.Logger
}

// New creates a client for cfg.BaseURL.
// When cfg.APIToken is set every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	httpClient := &http.Client{}
	if cfg.APIToken != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIToken,
			TokenType:   "Bearer",
		})
		httpClient = oauth2.NewClient(ctx, tokenSource)
	}

	c, err := NewWithHTTPClient(httpClient, cfg.BaseURL, logger)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: config.DefaultTimeout,
		logger:  logger,
	}, nil
}

type userReply struct {
	Todos []service.Task `json:"todos"`
}

// GetUser returns the user's tasks in server order.
func (c *Client) GetUser(ctx context.Context, username string) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	if err := validateUser(body); err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	var reply userReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, &MalformedError{Message: err.Error()})
	}
	if reply.Todos == nil {
		return []service.Task{}, nil
	}
	return reply.Todos, nil
}

// CreateUser creates the user with an empty task list.
func (c *Client) CreateUser(ctx context.Context, username string) error {
	body, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(username), struct{}{})
	if err != nil {
		return fmt.Errorf("create user %s: %w", username, err)
	}

	var reply struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(body, &reply) == nil && reply.Msg != "" {
		c.logger.Info("user created", "user", username, "msg", reply.Msg)
	} else {
		c.logger.Info("user created", "user", username)
	}
	return nil
}

// CreateTask creates a task for the user.
func (c *Client) CreateTask(ctx context.Context, username string, draft service.Draft) (service.TaskReply, error) {
	body, err := c.do(ctx, http.MethodPost, "/todos/"+url.PathEscape(username), draft)
	if err != nil {
		return service.TaskReply{}, fmt.Errorf("create todo: %w", err)
	}
	return decodeReply(body), nil
}

// UpdateTask replaces the task's label and completion flag.
func (c *Client) UpdateTask(ctx context.Context, id int, draft service.Draft) (service.TaskReply, error) {
	body, err := c.do(ctx, http.MethodPut, "/todos/"+strconv.Itoa(id), draft)
	if err != nil {
		return service.TaskReply{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return decodeReply(body), nil
}

// DeleteTask deletes a task. Any 2xx, 204 included, is success.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	if _, err := c.do(ctx, http.MethodDelete, "/todos/"+strconv.Itoa(id), nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

// do sends one request and returns the body of a 2xx response.
// Non-2xx responses come back as *googleapi.Error carrying status and body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start).Round(time.Millisecond))

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return body, nil
}

// decodeReply decodes a write response field by field. Fields that are
// missing or of the wrong type are left nil so the caller keeps its own value.
func decodeReply(body []byte) service.TaskReply {
	var reply service.TaskReply
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return reply
	}
	if raw, ok := present(fields, "id"); ok {
		var id int
		if json.Unmarshal(raw, &id) == nil {
			reply.ID = &id
		}
	}
	if raw, ok := present(fields, "label"); ok {
		var label string
		if json.Unmarshal(raw, &label) == nil {
			reply.Label = &label
		}
	}
	if raw, ok := present(fields, "is_done"); ok {
		var done bool
		if json.Unmarshal(raw, &done) == nil {
			reply.IsDone = &done
		}
	}
	return reply
}

// present returns the raw value of key unless it is missing or null.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func isStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}
