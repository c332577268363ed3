package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPool_RunsEveryTask(t *testing.T) {
	var sum int64

	var tasks []*Task
	for i := 1; i <= 100; i++ {
		tasks = append(tasks, NewTask(func(data interface{}) error {
			atomic.AddInt64(&sum, int64(data.(int)))
			return nil
		}, i))
	}

	p := NewPool(tasks, 4, zap.NewNop())
	p.Run()

	assert.Equal(t, int64(5050), sum)
	assert.Empty(t, p.Errors())
	assert.Len(t, p.Workers, 4)
}

func TestPool_CollectsErrorsInOrder(t *testing.T) {
	errOdd := errors.New("odd")

	var tasks []*Task
	for i := 0; i < 6; i++ {
		tasks = append(tasks, NewTask(func(data interface{}) error {
			if data.(int)%2 == 1 {
				return errOdd
			}
			return nil
		}, i))
	}

	p := NewPool(tasks, 0, zap.NewNop())
	p.Run()

	assert.Len(t, p.Errors(), 3)
	for _, task := range tasks {
		assert.NotZero(t, task.Worker)
	}
}
