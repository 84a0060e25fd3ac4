package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJobQueueRunsSubmittedJobs(t *testing.T) {
	q := &JobQueue{jobs: make(chan *Job, 8), workers: 2}
	q.StartWorkerPool()

	var ran atomic.Int32
	done := make(chan struct{})

	err := q.Submit(&Job{
		Kind: "test",
		Run: func(ctx context.Context) error {
			ran.Add(1)
			close(done)
			return nil
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}

	// One attempt, exactly
	require.Equal(t, int32(1), ran.Load())
}

func TestJobQueueAssignsIDs(t *testing.T) {
	q := &JobQueue{jobs: make(chan *Job, 1), workers: 0}

	j := &Job{Kind: "test", Run: func(ctx context.Context) error { return nil }}
	require.NoError(t, q.Submit(j))
	require.NotEmpty(t, j.ID)
}

func TestJobQueueFull(t *testing.T) {
	// No workers draining, capacity of one
	q := &JobQueue{jobs: make(chan *Job, 1), workers: 0}

	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, q.Submit(&Job{Kind: "test", Run: noop}))
	require.ErrorIs(t, q.Submit(&Job{Kind: "test", Run: noop}), ErrQueueFull)
}

func TestJobQueueSurvivesFailuresAndPanics(t *testing.T) {
	q := &JobQueue{jobs: make(chan *Job, 8), workers: 1}
	q.StartWorkerPool()

	boom := &Job{Kind: "panics", Run: func(ctx context.Context) error { panic("boom") }}
	failing := &Job{Kind: "fails", Run: func(ctx context.Context) error { return ErrEmailDelivery }}

	done := make(chan struct{})
	after := &Job{Kind: "after", Run: func(ctx context.Context) error {
		close(done)
		return nil
	}}

	require.NoError(t, q.Submit(boom))
	require.NoError(t, q.Submit(failing))
	require.NoError(t, q.Submit(after))

	// The single worker only reaches the last job if the first two
	// failures were contained
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died on a failing job")
	}
}
