package collector

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"aiops-data-collector/internal/model"
)

// Dispatcher accepts jobs and runs them on a bounded worker pool. Dispatch
// is fire-and-forget: the submitter learns nothing about the job's fate.
// The bounded pool replaces one goroutine per job; a full queue applies
// backpressure instead of exhausting the process under load.
type Dispatcher struct {
	jobs chan model.Job
	wg   sync.WaitGroup
}

// NewDispatcher starts workers goroutines feeding run from a queue of the
// given depth
func NewDispatcher(run func(model.Job), workers, queueDepth int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}

	d := &Dispatcher{jobs: make(chan model.Job, queueDepth)}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			for job := range d.jobs {
				log.WithFields(log.Fields{
					"pool_worker": id,
					"source_id":   job.SourceID,
				}).Debug("Job picked up")
				run(job)
			}
		}(i)
	}
	return d
}

// Dispatch enqueues a job and returns. It blocks only when the queue is
// full.
func (d *Dispatcher) Dispatch(job model.Job) {
	d.jobs <- job
}

// Stop drains the queue and waits for in-flight jobs to finish
func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
}
