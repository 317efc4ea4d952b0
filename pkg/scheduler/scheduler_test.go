package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskQueue_OrderedByNextTime(t *testing.T) {
	q := newTaskQueue()
	now := time.Now()

	late := NewOnceTask("late", now.Add(time.Hour), ExecuteModeLocal, 0, nil)
	early := NewOnceTask("early", now.Add(time.Minute), ExecuteModeLocal, 0, nil)
	q.Add(late)
	q.Add(early)

	next := q.NextExecuteTime()
	assert.NotNil(t, next)
	assert.True(t, next.Equal(early.NextTime()))
}

func TestTaskQueue_PopReady(t *testing.T) {
	q := newTaskQueue()
	now := time.Now()

	ready := NewOnceTask("ready", now.Add(-time.Second), ExecuteModeLocal, 0, nil)
	pending := NewOnceTask("pending", now.Add(time.Hour), ExecuteModeLocal, 0, nil)
	q.Add(ready)
	q.Add(pending)

	got := q.PopReady(now)
	assert.Len(t, got, 1)
	assert.Equal(t, "ready", got[0].Name)

	// 未到时间的任务留在队列里
	assert.Equal(t, 1, q.Len())
}

func TestTaskQueue_Remove(t *testing.T) {
	q := newTaskQueue()
	task := NewOnceTask("t", time.Now().Add(time.Hour), ExecuteModeLocal, 0, nil)
	q.Add(task)

	assert.True(t, q.Remove(task.ID))
	assert.False(t, q.Remove(task.ID))
	assert.Nil(t, q.NextExecuteTime())
}

func TestOnceTask_Reschedule(t *testing.T) {
	task := NewOnceTask("once", time.Now(), ExecuteModeLocal, 0, nil)

	assert.False(t, task.Reschedule(time.Now()))
	assert.True(t, task.Completed())
}

func TestIntervalTask_Reschedule(t *testing.T) {
	start := time.Now()
	task := NewIntervalTask("interval", start, time.Minute, ExecuteModeLocal, 0, nil)

	current := start.Add(time.Second)
	assert.True(t, task.Reschedule(current))
	assert.False(t, task.Completed())
	assert.True(t, task.NextTime().Equal(current.Add(time.Minute)))
}

func TestCronTask_Reschedule(t *testing.T) {
	// 每分钟的0秒执行
	task, err := NewCronTask("cron", "0 * * * * *", ExecuteModeLocal, 0, nil)
	assert.NoError(t, err)

	before := task.NextTime()
	assert.True(t, task.Reschedule(before))
	assert.True(t, task.NextTime().After(before))
}

func TestCronTask_InvalidExpr(t *testing.T) {
	_, err := NewCronTask("bad", "not a cron", ExecuteModeLocal, 0, nil)
	assert.Error(t, err)
}

func TestScheduler_RunsLocalTask(t *testing.T) {
	s := NewScheduler(nil, DefaultConfig())
	assert.NoError(t, s.Start())
	defer s.Stop()

	done := make(chan struct{})
	task := NewOnceTask("run-once", time.Now(), ExecuteModeLocal, time.Second, func(ctx context.Context) error {
		close(done)
		return nil
	})
	assert.NoError(t, s.AddTask(task))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("任务超时未执行")
	}
}

func TestScheduler_NilLockerActsAsLeader(t *testing.T) {
	s := NewScheduler(nil, nil)
	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsLeader())

	done := make(chan struct{})
	task := NewOnceTask("distributed", time.Now(), ExecuteModeDistributed, time.Second, func(ctx context.Context) error {
		close(done)
		return nil
	})
	assert.NoError(t, s.AddTask(task))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("分布式任务在单节点模式下应被执行")
	}
}

func TestScheduler_FollowerKeepsDistributedOnceTask(t *testing.T) {
	// 未启动的调度器 isLeader 为 false，直接派发即模拟跟随者节点
	s := NewScheduler(nil, DefaultConfig())

	executed := false
	task := NewOnceTask("dist-once", time.Now(), ExecuteModeDistributed, time.Second, func(ctx context.Context) error {
		executed = true
		return nil
	})

	s.dispatch(task)

	// 跟随者不执行，也不能把一次性任务标记成完成
	assert.False(t, executed)
	assert.False(t, task.Completed())

	// 任务延后重新入队，等领导者接手
	assert.Len(t, s.queue.List(), 1)
	assert.True(t, task.NextTime().After(time.Now()))
}

func TestScheduler_FollowerReschedulesDistributedIntervalTask(t *testing.T) {
	s := NewScheduler(nil, DefaultConfig())

	task := NewIntervalTask("dist-interval", time.Now(), time.Minute, ExecuteModeDistributed, time.Second, nil)
	s.dispatch(task)

	assert.False(t, task.Completed())
	assert.Len(t, s.queue.List(), 1)
}

func TestScheduler_AddTaskRequiresRunning(t *testing.T) {
	s := NewScheduler(nil, nil)

	task := NewOnceTask("t", time.Now(), ExecuteModeLocal, 0, nil)
	assert.Error(t, s.AddTask(task))
}
