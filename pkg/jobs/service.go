package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/zdunecki/jobwizard/pkg/options"
)

// Service is the remote job API the wizard submits to.
type Service interface {
	// ListNodes returns the compute nodes and the one the service recommends.
	ListNodes(ctx context.Context) (NodeList, error)

	// NodeOptions returns the options a node accepts for a job.
	NodeOptions(ctx context.Context, nodeID string) (options.OptionSet, error)

	// Submit creates a job and returns its id.
	Submit(ctx context.Context, sub Submission) (string, error)

	// Status reports the current state of a job.
	Status(ctx context.Context, jobID string) (JobStatus, error)

	// Result downloads the output of a succeeded job.
	Result(ctx context.Context, jobID string) ([]byte, error)
}

// Node is a compute node. CPUUsage is a display-only percentage.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	CPUUsage float64 `json:"cpu_usage"`
}

// NodeList is the node listing plus the recommended node id.
type NodeList struct {
	Nodes       []Node `json:"nodes"`
	Recommended string `json:"recommended"`
}

// Submission is everything the service needs to create a job.
type Submission struct {
	Node    string             `json:"node"`
	Source  string             `json:"source"`
	Label   string             `json:"label"`
	Options options.UserValues `json:"options"`
}

// JobState is the lifecycle state reported by the service.
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateSucceeded JobState = "succeeded"
	StateFailed    JobState = "failed"
)

// JobStatus is the response of a status query.
type JobStatus struct {
	ID    string   `json:"id"`
	State JobState `json:"state"`
	Error string   `json:"error,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (s JobStatus) Done() bool {
	return s.State == StateSucceeded || s.State == StateFailed
}

// ErrJobFailed is returned by Wait when the service reports a failed job.
var ErrJobFailed = errors.New("job failed")

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}
