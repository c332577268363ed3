package workerpool

// Task is a unit of work with its own input data.
type Task struct {
	Err    error
	Data   interface{}
	Worker int

	f func(interface{}) error
}

// NewTask wraps f so that it is called with data by one of the workers.
func NewTask(f func(interface{}) error, data interface{}) *Task {
	return &Task{f: f, Data: data}
}

func process(workerID int, task *Task) {
	task.Worker = workerID
	task.Err = task.f(task.Data)
}
