package achievements

import (
	"context"
	"log"
	"time"

	"sauna-admin-backend/internal/badge"
	"sauna-admin-backend/internal/store"
)

// Job asks a worker to recompute one member's badge set as of a fixed
// instant. RankingCodes carries the cross-member badges the service has
// already assigned; done, if set, is called once the job is finished.
type Job struct {
	MemberID     int64
	AsOf         time.Time
	RankingCodes []string
	TotalVisits  int64
	done         func()
}

// WorkerPool manages a pool of workers recomputing member badge sets.
type WorkerPool struct {
	size  int
	jobs  chan Job
	store store.Store
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store) *WorkerPool {
	return &WorkerPool{
		size:  size,
		jobs:  make(chan Job, size), // Buffered channel
		store: s,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Badge worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.recomputeMember(ctx, job)
			if job.done != nil {
				job.done()
			}
		case <-ctx.Done():
			wp.drain()
			log.Printf("Badge worker %d shutting down", id)
			return
		}
	}
}

// drain releases queued jobs without processing them so a dispatcher
// waiting on job completion can observe shutdown.
func (wp *WorkerPool) drain() {
	for {
		select {
		case job := <-wp.jobs:
			if job.done != nil {
				job.done()
			}
		default:
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It reports false when ctx
// ends before the pool accepts the job.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// recomputeMember evaluates one member's personal badges and reconciles
// the stored set.
func (wp *WorkerPool) recomputeMember(ctx context.Context, job Job) {
	member, err := wp.store.Member(ctx, job.MemberID)
	if err != nil {
		log.Printf("Error fetching member %d for badge recompute: %v", job.MemberID, err)
		return
	}

	// One trailing year covers every dynamic window and the seasonal
	// challenges.
	visits, err := wp.store.VisitsSince(ctx, job.MemberID, job.AsOf.AddDate(-1, 0, 0))
	if err != nil {
		log.Printf("Error fetching visits for member %d: %v", job.MemberID, err)
		return
	}

	earned := Evaluate(MemberHistory{
		MemberID:    job.MemberID,
		JoinedAt:    member.JoinedAt,
		Visits:      visits,
		TotalVisits: job.TotalVisits,
	}, job.AsOf)
	earned = append(earned, job.RankingCodes...)

	if err := wp.store.UpdateMemberBadges(ctx, job.MemberID, job.AsOf, earned, badge.IsDynamic); err != nil {
		log.Printf("Error updating badges for member %d: %v", job.MemberID, err)
	}
}
