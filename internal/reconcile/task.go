package reconcile

import (
	"context"
)

// Task is the handle of one queued store call. Callers may Wait on it or
// drop it; dropping never blocks the next action.
type Task struct {
	run  func() error
	done chan struct{}
	err  error
}

func newTask(run func() error) *Task {
	return &Task{run: run, done: make(chan struct{})}
}

// completedTask is returned for actions that need no store call.
func completedTask(err error) *Task {
	t := &Task{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *Task) execute() {
	t.err = t.run()
	close(t.done)
}

// Done is closed once the store call has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends. Cancelling ctx stops the
// wait, not the store call.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the outcome of a finished task, or nil while it is running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
