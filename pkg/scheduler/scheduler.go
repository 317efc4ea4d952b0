package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"shanchuan/pkg/core/logger"

	"github.com/bsm/redislock"
)

// Config 调度器配置
type Config struct {
	NodeID        string
	LockKey       string
	LockTTL       time.Duration
	CheckInterval time.Duration
	MaxWorkers    int
}

// DefaultConfig 默认调度器配置
func DefaultConfig() *Config {
	return &Config{
		NodeID:        fmt.Sprintf("scheduler-%d", time.Now().UnixNano()),
		LockKey:       "shanchuan:scheduler:leader",
		LockTTL:       30 * time.Second,
		CheckInterval: 1 * time.Second,
		MaxWorkers:    10,
	}
}

// Scheduler 基于时间堆的任务调度器，分布式任务通过redis领导锁保证只在一个节点执行
type Scheduler struct {
	nodeID        string
	locker        *redislock.Client
	lockKey       string
	lockTTL       time.Duration
	checkInterval time.Duration

	isRunning atomic.Bool
	isLeader  atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	queue      *taskQueue
	leaderLock *redislock.Lock
	lockMu     sync.Mutex

	workerSemaphore chan struct{}

	timer   *time.Timer
	timerMu sync.Mutex

	log *logger.Log

	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewScheduler 创建调度器，locker为nil时所有任务按本地模式执行
func NewScheduler(locker *redislock.Client, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		nodeID:          config.NodeID,
		locker:          locker,
		lockKey:         config.LockKey,
		lockTTL:         config.LockTTL,
		checkInterval:   config.CheckInterval,
		ctx:             ctx,
		cancel:          cancel,
		queue:           newTaskQueue(),
		workerSemaphore: make(chan struct{}, config.MaxWorkers),
		log:             logger.GetLogger().WithEntryName("Scheduler"),
	}
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	if !s.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("调度器已经在运行")
	}

	s.log.WithField("nodeID", s.nodeID).Info("启动调度器")

	if s.locker == nil {
		// 没有锁客户端视为单节点部署，直接当领导者
		s.isLeader.Store(true)
	} else {
		s.wg.Add(1)
		go s.leaderLoop()
	}

	s.resetTimer()
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() error {
	if !s.isRunning.CompareAndSwap(true, false) {
		return nil
	}

	s.log.Info("停止调度器")
	s.cancel()
	s.stopTimer()

	s.lockMu.Lock()
	if s.leaderLock != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := s.leaderLock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			s.log.WithErr(err).Error("释放调度器领导锁失败")
		}
		cancel()
		s.leaderLock = nil
	}
	s.lockMu.Unlock()

	s.wg.Wait()
	s.log.Info("调度器已停止")
	return nil
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task *Task) error {
	if !s.isRunning.Load() {
		return fmt.Errorf("调度器未运行")
	}

	s.queue.Add(task)
	s.log.WithField("task", task.Name).WithField("id", task.ID).Info("添加任务")
	s.resetTimer()
	return nil
}

// RemoveTask 按ID移除任务
func (s *Scheduler) RemoveTask(taskID string) bool {
	removed := s.queue.Remove(taskID)
	if removed {
		s.resetTimer()
	}
	return removed
}

// ListTasks 列出所有等待中的任务
func (s *Scheduler) ListTasks() []*Task {
	return s.queue.List()
}

// IsLeader 当前节点是否持有领导锁
func (s *Scheduler) IsLeader() bool {
	return s.isLeader.Load()
}

// CompletedCount 已成功执行的任务次数
func (s *Scheduler) CompletedCount() int64 {
	return s.completedTasks.Load()
}

// FailedCount 执行失败的任务次数
func (s *Scheduler) FailedCount() int64 {
	return s.failedTasks.Load()
}

// leaderLoop 周期性竞争/续期领导锁
func (s *Scheduler) leaderLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tryBecomeLeader()
		}
	}
}

// tryBecomeLeader 已持锁则续期，否则尝试抢锁
func (s *Scheduler) tryBecomeLeader() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if s.leaderLock != nil {
		if err := s.leaderLock.Refresh(ctx, s.lockTTL, nil); err == nil {
			return
		}
		// 续期失败说明锁已易主
		s.leaderLock = nil
		s.becomeFollower()
	}

	lock, err := s.locker.Obtain(ctx, s.lockKey, s.lockTTL, nil)
	if err != nil {
		if !errors.Is(err, redislock.ErrNotObtained) {
			s.log.WithErr(err).Error("获取调度器领导锁失败")
		}
		s.becomeFollower()
		return
	}

	s.leaderLock = lock
	if !s.isLeader.Load() {
		s.log.WithField("nodeID", s.nodeID).Info("成为调度器领导者")
		s.isLeader.Store(true)
		s.resetTimer()
	}
}

func (s *Scheduler) becomeFollower() {
	if s.isLeader.Load() {
		s.log.WithField("nodeID", s.nodeID).Info("失去调度器领导者身份")
		s.isLeader.Store(false)
	}
}

// resetTimer 按堆顶任务的时间重置触发定时器
func (s *Scheduler) resetTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	nextTime := s.queue.NextExecuteTime()
	if nextTime == nil {
		return
	}

	waitDuration := time.Until(*nextTime)
	if waitDuration < 0 {
		waitDuration = 0
	}
	s.timer = time.AfterFunc(waitDuration, s.onTimerFired)
}

func (s *Scheduler) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) onTimerFired() {
	if !s.isRunning.Load() {
		return
	}

	now := time.Now()
	ready := s.queue.PopReady(now)
	if len(ready) == 0 {
		s.resetTimer()
		return
	}

	for _, task := range ready {
		s.dispatch(task)
	}
}

// dispatch 把就绪任务丢给工作者池执行
func (s *Scheduler) dispatch(task *Task) {
	if task.Mode == ExecuteModeDistributed && !s.isLeader.Load() {
		// 非领导者不执行分布式任务：周期任务按下次时间重排，
		// 一次性任务不能标记完成，延后一个检查周期等领导者接手
		if task.once {
			task.next = time.Now().Add(s.checkInterval)
			s.queue.Add(task)
		} else if task.Reschedule(time.Now()) {
			s.queue.Add(task)
		}
		s.resetTimer()
		return
	}

	select {
	case s.workerSemaphore <- struct{}{}:
		s.wg.Add(1)
		go func(t *Task) {
			defer s.wg.Done()
			defer func() { <-s.workerSemaphore }()
			s.runTask(t)
		}(task)
	default:
		s.log.WithField("task", task.Name).Warn("工作者池已满，任务延后一秒重新调度")
		if task.Reschedule(time.Now().Add(1 * time.Second)) {
			s.queue.Add(task)
		}
		s.resetTimer()
	}
}

func (s *Scheduler) runTask(task *Task) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(s.ctx, task.GetTimeout())
	defer cancel()

	err := task.Execute(ctx)
	duration := time.Since(start)

	if err != nil {
		s.failedTasks.Add(1)
		s.log.WithField("task", task.Name).WithField("cost", duration.String()).WithErr(err).Error("任务执行失败")
	} else {
		s.completedTasks.Add(1)
		s.log.WithField("task", task.Name).WithField("cost", duration.String()).Debug("任务执行成功")
	}

	if task.Reschedule(time.Now()) {
		s.queue.Add(task)
	}
	s.resetTimer()
}
