package workerpool

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

// Pool.
type Pool struct {
	Tasks   []*Task
	Workers []*Worker

	concurrency int
	collector   chan *Task
	wg          sync.WaitGroup
	log         Log
}

// NewPool initializes a new pool with the given tasks.
func NewPool(tasks []*Task, concurrency int, log Log) *Pool {
	if concurrency < 1 {
		log.Info("invalid concurrency option, using 1: ", zap.Int("concurrency", concurrency))
		concurrency = 1
	}

	return &Pool{
		Tasks:       tasks,
		concurrency: concurrency,
		collector:   make(chan *Task, len(tasks)),
		log:         log,
	}
}

// Starts all the work in the Pool and blocks until it is finished.
func (p *Pool) Run() {
	for i := 1; i <= p.concurrency; i++ {
		worker := NewWorker(p.collector, i)
		p.Workers = append(p.Workers, worker)
		worker.Start(&p.wg)
	}

	for i := range p.Tasks {
		p.collector <- p.Tasks[i]
	}
	close(p.collector)

	p.wg.Wait()
}

// Errors returns the errors of the finished tasks, in task order.
func (p *Pool) Errors() []error {
	var errs []error
	for _, t := range p.Tasks {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}

	return errs
}
