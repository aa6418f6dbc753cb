package dispatch

import "time"

// Scheduler posts a function to run on a later tick, outside the current
// call frame. It is not a general scheduling mechanism: the dispatcher uses
// it for exactly one thing, moving the rethrow onto a fresh stack.
type Scheduler interface {
	Schedule(fn func())
}

// TimerScheduler is the production scheduler.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(fn func()) {
	time.AfterFunc(0, fn)
}
