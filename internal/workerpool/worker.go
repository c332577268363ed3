package workerpool

import (
	"sync"
)

// Worker controls all work.
type Worker struct {
	ID       int
	taskChan chan *Task
}

// NewWorker returns a new worker instance.
func NewWorker(channel chan *Task, ID int) *Worker {
	return &Worker{
		ID:       ID,
		taskChan: channel,
	}
}

// starts a worker.
func (wr *Worker) Start(wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for task := range wr.taskChan {
			process(wr.ID, task)
		}
	}()
}
