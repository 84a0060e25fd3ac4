// Package service contains the deferred-work machinery: the job queue
// and the jobs that run on it, plus the collaborators they call out to
package service

import (
	"context"
	"errors"

	"bitwise74/social-api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("job queue full")

// Job is a unit of deferred work captured when a request succeeds. Run
// gets one attempt; whatever it returns is logged and dropped, never
// retried and never surfaced to the request that submitted it.
type Job struct {
	ID   string
	Kind string
	Run  func(ctx context.Context) error
}

// JobQueue dispatches jobs to a fixed pool of workers over a buffered
// channel. Jobs submitted from one goroutine start in submission order
// but may finish in any order.
type JobQueue struct {
	jobs    chan *Job
	workers int
}

// NewJobQueue initializes a new job queue that limits the
// max amount of jobs that can be queued at once
func NewJobQueue() *JobQueue {
	maxQueued := viper.GetInt("jobs.max_queued")
	if maxQueued <= 0 {
		maxQueued = 64
	}

	workers := viper.GetInt("jobs.workers")
	if workers <= 0 {
		workers = 4
	}

	return &JobQueue{
		jobs:    make(chan *Job, maxQueued),
		workers: workers,
	}
}

func (q *JobQueue) StartWorkerPool() {
	for range q.workers {
		go q.worker()
	}
}

// Submit enqueues a job without blocking. Once accepted the job belongs
// to the queue; callers must not read or mutate its arguments afterwards.
func (q *JobQueue) Submit(j *Job) error {
	if j.ID == "" {
		j.ID = util.RandStr(10)
	}

	select {
	case q.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *JobQueue) worker() {
	for job := range q.jobs {
		q.runJob(job)
	}
}

// runJob gives a job its single attempt. Panics and errors stop at this
// boundary so a broken job can't take the serving process down with it.
func (q *JobQueue) runJob(job *Job) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Job panicked",
				zap.String("jobID", job.ID),
				zap.String("kind", job.Kind),
				zap.Any("panic", r),
			)
		}
	}()

	zap.L().Debug("Running job", zap.String("jobID", job.ID), zap.String("kind", job.Kind))

	if err := job.Run(context.Background()); err != nil {
		zap.L().Error("Job failed",
			zap.Error(err),
			zap.String("jobID", job.ID),
			zap.String("kind", job.Kind),
		)
	}
}
