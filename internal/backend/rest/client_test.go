package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"todo/internal/backend/rest"
	"todo/internal/config"
	"todo/internal/service"
)

type recorded struct {
	method string
	path   string
	body   string
	header http.Header
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) get(i int) recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// newServer starts a test store that answers every request with handler and
// records what it received.
func newServer(t *testing.T, handler http.HandlerFunc) (*rest.Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{method: r.Method, path: r.URL.EscapedPath(), body: string(body), header: r.Header.Clone()})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := rest.NewWithHTTPClient(srv.Client(), srv.URL+"/todo/", nil)
	require.NoError(t, err)
	return client, rec
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
func boolp(v bool) *bool    { return &v }

func TestGetUser(t *testing.T) {
	client, calls := newServer(t, reply(200, `{"name":"alice","todos":[{"id":1,"label":"A","is_done":false},{"id":2,"label":"B","is_done":true}]}`))

	tasks, err := client.GetUser(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, []service.Task{{ID: 1, Label: "A"}, {ID: 2, Label: "B", IsDone: true}}, tasks)
	require.Equal(t, 1, calls.len())
	assert.Equal(t, http.MethodGet, calls.get(0).method)
	assert.Equal(t, "/todo/users/alice", calls.get(0).path)
	assert.NotEmpty(t, calls.get(0).header.Get(rest.RequestIDHeader))
}

func TestGetUser_EscapesUsername(t *testing.T) {
	client, calls := newServer(t, reply(200, `{"todos":[]}`))

	_, err := client.GetUser(context.Background(), "a b/c")
	require.NoError(t, err)
	assert.Equal(t, "/todo/users/a%20b%2Fc", calls.get(0).path)
}

func TestGetUser_MissingTodosIsEmpty(t *testing.T) {
	client, _ := newServer(t, reply(200, `{"name":"alice"}`))

	tasks, err := client.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGetUser_NotFound(t *testing.T) {
	client, _ := newServer(t, reply(404, `{"detail":"User alice doesn't exist."}`))

	_, err := client.GetUser(context.Background(), "alice")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestGetUser_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"todos not array", `{"todos":"none"}`},
		{"id wrong type", `{"todos":[{"id":"seven","label":"A","is_done":false}]}`},
		{"missing id", `{"todos":[{"label":"A","is_done":false}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newServer(t, reply(200, tt.body))

			_, err := client.GetUser(context.Background(), "alice")
			var merr *rest.MalformedError
			require.ErrorAs(t, err, &merr)
		})
	}
}

func TestGetUser_ServerError(t *testing.T) {
	client, _ := newServer(t, reply(500, "Internal Server Error"))

	_, err := client.GetUser(context.Background(), "alice")
	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 500, gerr.Code)
	assert.Equal(t, "Internal Server Error", gerr.Body)
}

func TestCreateUser(t *testing.T) {
	client, calls := newServer(t, reply(201, `{"msg":"ok"}`))

	require.NoError(t, client.CreateUser(context.Background(), "alice"))
	call := calls.get(0)
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/todo/users/alice", call.path)
	assert.JSONEq(t, `{}`, call.body)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
}

func TestCreateUser_Error(t *testing.T) {
	client, _ := newServer(t, reply(400, `{"detail":"User already exists."}`))

	err := client.CreateUser(context.Background(), "alice")
	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 400, gerr.Code)
}

func TestCreateTask(t *testing.T) {
	client, calls := newServer(t, reply(201, `{"id":7,"label":"Buy milk","is_done":false}`))

	got, err := client.CreateTask(context.Background(), "alice", service.Draft{Label: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, service.TaskReply{ID: intp(7), Label: strp("Buy milk"), IsDone: boolp(false)}, got)
	call := calls.get(0)
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/todo/todos/alice", call.path)
	assert.JSONEq(t, `{"label":"Buy milk","is_done":false}`, call.body)
}

func TestUpdateTask_SendsFullRecord(t *testing.T) {
	client, calls := newServer(t, reply(200, `{"id":3,"label":"X","is_done":true}`))

	got, err := client.UpdateTask(context.Background(), 3, service.Draft{Label: "X", IsDone: true})
	require.NoError(t, err)

	assert.Equal(t, 3, *got.ID)
	call := calls.get(0)
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/todo/todos/3", call.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.body), &sent))
	assert.Equal(t, map[string]any{"label": "X", "is_done": true}, sent)
}

func TestUpdateTask_PartialReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want service.TaskReply
	}{
		{"empty body", ``, service.TaskReply{}},
		{"only label", `{"label":"Y"}`, service.TaskReply{Label: strp("Y")}},
		{"null and wrong types dropped", `{"id":null,"label":5,"is_done":true}`, service.TaskReply{IsDone: boolp(true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newServer(t, reply(200, tt.body))

			got, err := client.UpdateTask(context.Background(), 3, service.Draft{Label: "X"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	for _, status := range []int{200, 204} {
		client, calls := newServer(t, reply(status, ""))

		require.NoError(t, client.DeleteTask(context.Background(), 9), "status %d", status)
		assert.Equal(t, http.MethodDelete, calls.get(0).method)
		assert.Equal(t, "/todo/todos/9", calls.get(0).path)
		assert.Empty(t, calls.get(0).header.Get("Content-Type"))
	}
}

func TestDeleteTask_Error(t *testing.T) {
	client, _ := newServer(t, reply(500, `{"msg":"boom"}`))

	err := client.DeleteTask(context.Background(), 9)
	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, `{"msg":"boom"}`, gerr.Body)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.BaseURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond

	client, err := rest.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	err = client.DeleteTask(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "request timed out")
}

func TestBearerToken(t *testing.T) {
	auth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		io.WriteString(w, `{"todos":[]}`)
	}))
	t.Cleanup(srv.Close)

	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.BaseURL = srv.URL
	cfg.APIToken = "s3cret"

	client, err := rest.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, err = client.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", <-auth)
}

func TestNewWithHTTPClient_InvalidURL(t *testing.T) {
	_, err := rest.NewWithHTTPClient(http.DefaultClient, "not a url", nil)
	assert.Error(t, err)
}
