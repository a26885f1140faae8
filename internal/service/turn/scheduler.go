package turn

import "time"

// Task is a pending delayed callback.
type Task interface {
	// Cancel stops the callback. It reports false when the callback already ran or was cancelled.
	Cancel() bool
}

// Scheduler runs callbacks after a delay without blocking the caller.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) Task {
	return timerTask{timer: time.AfterFunc(d, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Cancel() bool {
	return t.timer.Stop()
}
