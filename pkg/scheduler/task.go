package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ExecuteMode 任务执行模式
type ExecuteMode int

const (
	// ExecuteModeLocal 本地执行，每个节点都会跑
	ExecuteModeLocal ExecuteMode = iota
	// ExecuteModeDistributed 分布式执行，只有持有领导锁的节点执行
	ExecuteModeDistributed
)

// TaskFunc 任务执行函数
type TaskFunc func(ctx context.Context) error

const defaultTaskTimeout = 30 * time.Second

// Task 调度任务，按 next 时间在堆中排序
type Task struct {
	ID      string
	Name    string
	Mode    ExecuteMode
	Timeout time.Duration

	next     time.Time
	interval time.Duration
	schedule cron.Schedule
	once     bool
	done     bool
	fn       TaskFunc
}

// NewOnceTask 创建一次性任务
func NewOnceTask(name string, executeTime time.Time, mode ExecuteMode, timeout time.Duration, fn TaskFunc) *Task {
	return &Task{
		ID:      uuid.New().String(),
		Name:    name,
		Mode:    mode,
		Timeout: timeout,
		next:    executeTime,
		once:    true,
		fn:      fn,
	}
}

// NewIntervalTask 创建固定间隔任务
func NewIntervalTask(name string, startTime time.Time, interval time.Duration, mode ExecuteMode, timeout time.Duration, fn TaskFunc) *Task {
	return &Task{
		ID:       uuid.New().String(),
		Name:     name,
		Mode:     mode,
		Timeout:  timeout,
		next:     startTime,
		interval: interval,
		fn:       fn,
	}
}

// NewCronTask 创建基于Cron表达式的任务，表达式带秒位
func NewCronTask(name string, cronExpr string, mode ExecuteMode, timeout time.Duration, fn TaskFunc) (*Task, error) {
	parser := cron.NewParser(
		cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:       uuid.New().String(),
		Name:     name,
		Mode:     mode,
		Timeout:  timeout,
		next:     schedule.Next(time.Now()),
		schedule: schedule,
		fn:       fn,
	}, nil
}

// NextTime 下次执行时间
func (t *Task) NextTime() time.Time {
	return t.next
}

// GetTimeout 任务超时时间
func (t *Task) GetTimeout() time.Duration {
	if t.Timeout <= 0 {
		return defaultTaskTimeout
	}
	return t.Timeout
}

// Completed 任务是否不再需要调度
func (t *Task) Completed() bool {
	return t.done
}

// Execute 执行任务体
func (t *Task) Execute(ctx context.Context) error {
	if t.fn == nil {
		return nil
	}
	return t.fn(ctx)
}

// Reschedule 计算下次执行时间，一次性任务返回false表示结束
func (t *Task) Reschedule(currentTime time.Time) bool {
	switch {
	case t.once:
		t.done = true
		return false
	case t.schedule != nil:
		t.next = t.schedule.Next(currentTime)
	default:
		t.next = currentTime.Add(t.interval)
	}
	return true
}
