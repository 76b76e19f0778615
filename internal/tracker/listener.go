package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
)

// Snapshot is one observed state of a job. Err is set when polling halted
// without resolving the job (transport failure or poll budget exhausted); the
// job stays pending and observation can be restarted by calling Observe again.
type Snapshot struct {
	Job *domain.Job
	Err error
}

// Observe produces a finite sequence of job snapshots: the current state
// immediately, then updates until a terminal snapshot or a poll failure is
// delivered, at which point the channel closes. Snapshots arrive in
// non-decreasing lifecycle order and the terminal snapshot is sent once.
// Cancelling the context stops the loop between ticks without mutating the
// job.
func (s *Service) Observe(ctx context.Context, jobID string) (<-chan Snapshot, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	ch := make(chan Snapshot, 4)
	go s.observe(ctx, job, ch)
	return ch, nil
}

func (s *Service) observe(ctx context.Context, job *domain.Job, ch chan<- Snapshot) {
	defer close(ch)

	events := s.bus.Subscribe(job.ID)
	defer s.bus.Unsubscribe(job.ID, events)

	if !s.send(ctx, ch, Snapshot{Job: job}) {
		return
	}
	if job.Terminal() {
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case <-ctx.Done():
			return

		case committed, ok := <-events:
			if !ok {
				return
			}
			if !s.send(ctx, ch, Snapshot{Job: committed}) {
				return
			}
			if committed.Terminal() {
				// The reconciler already committed; nothing left to poll.
				return
			}

		case <-ticker.C:
			if s.maxPolls > 0 && polls >= s.maxPolls {
				s.send(ctx, ch, Snapshot{Job: job, Err: &domain.PollError{
					Provider: job.Provider,
					Err:      fmt.Errorf("gave up after %d polls", polls),
				}})
				return
			}
			polls++

			fresh, err := s.PollOnce(ctx, job)
			if err != nil {
				// Ambiguous outcome: report and halt, leaving the job pending
				// for a manual retry.
				s.send(ctx, ch, Snapshot{Job: job, Err: err})
				return
			}
			if fresh.Terminal() {
				s.send(ctx, ch, Snapshot{Job: fresh})
				return
			}
			job = fresh
			if !s.send(ctx, ch, Snapshot{Job: fresh}) {
				return
			}
		}
	}
}

func (s *Service) send(ctx context.Context, ch chan<- Snapshot, snap Snapshot) bool {
	select {
	case ch <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
