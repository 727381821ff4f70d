package service

import "time"

// Timer 是一个已安排的任务，Stop 取消尚未执行的任务
type Timer interface {
	Stop() bool
}

// Scheduler 负责延迟执行任务，测试中可以替换成手动触发的实现
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler 使用 time.AfterFunc
func RealScheduler() Scheduler {
	return timeScheduler{}
}
