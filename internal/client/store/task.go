package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// TaskState is the lifecycle of one dispatched command.
type TaskState int

const (
	TaskIssued TaskState = iota
	TaskInFlight
	TaskSucceeded
	TaskFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskIssued:
		return "issued"
	case TaskInFlight:
		return "in_flight"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	}
	return "invalid"
}

// Task is the future returned by Dispatch. It settles exactly once.
type Task struct {
	ID      uuid.UUID
	Command Command
	Seq     uint64

	// token is the session token current at dispatch.
	token string
	done  chan struct{}

	mu         sync.Mutex
	state      TaskState
	result     Result
	superseded bool
}

func newTask(cmd Command, seq uint64) *Task {
	return &Task{
		ID:      uuid.New(),
		Command: cmd,
		Seq:     seq,
		done:    make(chan struct{}),
	}
}

// Done is closed once the task has settled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles or ctx ends.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		r, _ := t.Result()
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the outcome and whether the task has settled.
func (t *Task) Result() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.state == TaskSucceeded || t.state == TaskFailed
}

// Superseded reports whether a newer command of the same kind was issued
// before this one settled, so its outcome never reached State.
func (t *Task) Superseded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.superseded
}

func (t *Task) start() {
	t.mu.Lock()
	if t.state == TaskIssued {
		t.state = TaskInFlight
	}
	t.mu.Unlock()
}

func (t *Task) finish(r Result, superseded bool) {
	t.mu.Lock()
	if t.state == TaskSucceeded || t.state == TaskFailed {
		t.mu.Unlock()
		return
	}
	t.result, t.superseded = r, superseded
	t.state = TaskFailed
	if r.OK() {
		t.state = TaskSucceeded
	}
	t.mu.Unlock()
	close(t.done)
}
