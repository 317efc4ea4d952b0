package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// taskQueue 最小堆，堆顶是最早要执行的任务
type taskQueue struct {
	mu    sync.Mutex
	tasks []*Task
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{tasks: make([]*Task, 0)}
	heap.Init(q)
	return q
}

func (q *taskQueue) Len() int { return len(q.tasks) }

func (q *taskQueue) Less(i, j int) bool {
	return q.tasks[i].next.Before(q.tasks[j].next)
}

func (q *taskQueue) Swap(i, j int) {
	q.tasks[i], q.tasks[j] = q.tasks[j], q.tasks[i]
}

func (q *taskQueue) Push(x interface{}) {
	q.tasks = append(q.tasks, x.(*Task))
}

func (q *taskQueue) Pop() interface{} {
	old := q.tasks
	n := len(old)
	task := old[n-1]
	q.tasks = old[:n-1]
	return task
}

// Add 线程安全地加入任务
func (q *taskQueue) Add(task *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(q, task)
}

// Remove 按ID移除任务
func (q *taskQueue) Remove(taskID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tasks {
		if t.ID == taskID {
			heap.Remove(q, i)
			return true
		}
	}
	return false
}

// List 返回所有任务的快照
func (q *taskQueue) List() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	result := make([]*Task, len(q.tasks))
	copy(result, q.tasks)
	return result
}

// NextExecuteTime 堆顶任务的执行时间，队列为空返回nil
func (q *taskQueue) NextExecuteTime() *time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil
	}
	next := q.tasks[0].next
	return &next
}

// PopReady 弹出所有已到执行时间的任务
func (q *taskQueue) PopReady(currentTime time.Time) []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	var ready []*Task
	for len(q.tasks) > 0 && !currentTime.Before(q.tasks[0].next) {
		ready = append(ready, heap.Pop(q).(*Task))
	}
	return ready
}
