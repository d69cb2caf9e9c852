package job

import (
	"time"
)

// Background work for the api binary. Event pushes and the draw reminder
// loop go through a single buffered queue drained by a small worker pool.

type Job interface {
	Execute()
}

type JobQueue chan Job

var Queue JobQueue

// Dispatch enqueues the job after the delay without blocking the caller.
func Dispatch(job Job, delay time.Duration) {
	go func() {
		<-time.After(delay)
		Queue <- job
	}()
}

type WorkerPool struct {
	size  int
	queue JobQueue
}

func NewWorkerPool(size int, queue JobQueue) *WorkerPool {
	return &WorkerPool{size: size, queue: queue}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.size; i++ {
		go func() {
			for job := range p.queue {
				job.Execute()
			}
		}()
	}
}
