package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdunecki/jobwizard/pkg/options"
)

func newTestServer(t *testing.T) (*httptest.Server, *Submission) {
	t.Helper()
	var submitted Submission

	mux := http.NewServeMux()
	mux.HandleFunc("/nodes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error": "bad token"}`)
			return
		}
		io.WriteString(w, `{"nodes": [{"id": "n1", "name": "alpha", "cpu_usage": 12.5}, {"id": "n2", "name": "beta", "cpu_usage": 80}], "recommended": "n1"}`)
	})
	mux.HandleFunc("/nodes/n1/options", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"options": [
			{"id": "gpu", "name": "Use GPU", "type": "CHECKBOX"},
			{"id": "precision", "type": "DROPDOWN", "choices": ["single", "double"],
			 "dependencies": [{"option": "gpu", "values": [true]}]}
		]}`)
	})
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"job_id": "job-42"}`)
	})
	mux.HandleFunc("/jobs/job-42", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"state": "running"}`)
	})
	mux.HandleFunc("/jobs/job-42/result", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "energy = -1.25\n")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &submitted
}

func TestClientRoundTrip(t *testing.T) {
	srv, submitted := newTestServer(t)
	c, err := NewClient(srv.URL+"/", "secret")
	require.NoError(t, err)
	ctx := context.Background()

	nodes, err := c.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", nodes.Recommended)
	require.Len(t, nodes.Nodes, 2)
	assert.Equal(t, Node{ID: "n2", Name: "beta", CPUUsage: 80}, nodes.Nodes[1])

	set, err := c.NodeOptions(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpu", "precision"}, set.IDs())
	require.NoError(t, set.Validate())

	id, err := c.Submit(ctx, Submission{
		Node:    "n1",
		Source:  "print(1)",
		Label:   "demo",
		Options: options.UserValues{"gpu": true, "precision": "double"},
	})
	require.NoError(t, err)
	assert.Equal(t, "job-42", id)
	assert.Equal(t, "n1", submitted.Node)
	assert.Equal(t, "demo", submitted.Label)
	assert.Equal(t, options.UserValues{"gpu": true, "precision": "double"}, submitted.Options)

	status, err := c.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, JobStatus{ID: "job-42", State: StateRunning}, status)
	assert.False(t, status.Done())

	result, err := c.Result(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "energy = -1.25\n", string(result))
}

func TestClientAPIError(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := NewClient(srv.URL, "wrong")
	require.NoError(t, err)

	_, err = c.ListNodes(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad token", apiErr.Message)
	assert.ErrorContains(t, err, "list nodes")

	_, err = c.Status(context.Background(), "missing")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestNewClientValidatesEndpoint(t *testing.T) {
	_, err := NewClient("", "")
	assert.ErrorContains(t, err, "not configured")

	_, err = NewClient("not a url", "")
	assert.Error(t, err)
}

type fakeService struct {
	Service
	states []JobStatus
	calls  int
}

func (f *fakeService) Status(ctx context.Context, jobID string) (JobStatus, error) {
	s := f.states[f.calls]
	if f.calls < len(f.states)-1 {
		f.calls++
	}
	return s, nil
}

func TestWait(t *testing.T) {
	t.Run("succeeds after polling", func(t *testing.T) {
		svc := &fakeService{states: []JobStatus{
			{State: StatePending}, {State: StateRunning}, {State: StateSucceeded},
		}}
		status, err := Wait(context.Background(), svc, "j", time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, StateSucceeded, status.State)
		assert.Equal(t, 2, svc.calls)
	})

	t.Run("failure carries message", func(t *testing.T) {
		svc := &fakeService{states: []JobStatus{{State: StateFailed, Error: "segfault"}}}
		_, err := Wait(context.Background(), svc, "j", time.Millisecond)
		assert.ErrorIs(t, err, ErrJobFailed)
		assert.ErrorContains(t, err, "segfault")
	})

	t.Run("context ends", func(t *testing.T) {
		svc := &fakeService{states: []JobStatus{{State: StateRunning}}}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := Wait(ctx, svc, "j", 5*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
