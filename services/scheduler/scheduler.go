// Package schedsvc runs background jobs detached from request handlers.
package schedsvc

import (
	"context"
	"sync"

	"github.com/assignkun/assignkun/core"
)

// Async runs each job on its own goroutine with a fresh context, so the job
// outlives the request that scheduled it. Panics are recovered and logged.
type Async struct {
	logger core.Logger
	wg     sync.WaitGroup
}

var _ core.Scheduler = (*Async)(nil) // interface compliance check

func NewAsync(logger core.Logger) *Async {
	return &Async{logger: logger}
}

func (s *Async) Schedule(name string, job func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("job panicked: "+name, r)
			}
		}()
		job(context.Background())
	}()
}

// Wait blocks until all scheduled jobs return. Called on shutdown.
func (s *Async) Wait() {
	s.wg.Wait()
}

// Sync runs jobs inline; tests use it to make scheduled work deterministic.
type Sync struct{}

var _ core.Scheduler = (*Sync)(nil) // interface compliance check

func NewSync() *Sync {
	return &Sync{}
}

func (Sync) Schedule(_ string, job func(ctx context.Context)) {
	job(context.Background())
}
