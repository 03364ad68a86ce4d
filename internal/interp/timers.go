package interp

import "time"

// scheduleOnce arms a one-shot timer that invokes fn on the Interpreter's
// single logical thread after d elapses, and registers it for cancellation
// on the next fork entry (spec §4.4.2, §5's "Timers installed during
// evaluation are conceptually owned by the fork in progress").
func (i *Interpreter) scheduleOnce(d time.Duration, fn func()) {
	cancelled := false
	t := time.AfterFunc(d, func() {
		i.withLock(func() {
			if cancelled {
				return
			}
			fn()
		})
	})
	h := &timerHandle{stop: func() {
		cancelled = true
		t.Stop()
	}}
	i.liveTimers = append(i.liveTimers, h)
}

// scheduleRepeating arms a timer that invokes tick every d until tick
// returns true (done), used by `type`'s per-character reveal (spec §4.4.4).
func (i *Interpreter) scheduleRepeating(d time.Duration, tick func() (done bool)) {
	var h *timerHandle
	cancelled := false
	var arm func()
	arm = func() {
		t := time.AfterFunc(d, func() {
			i.withLock(func() {
				if cancelled {
					return
				}
				if tick() {
					return
				}
				arm()
			})
		})
		h.stop = func() {
			cancelled = true
			t.Stop()
		}
	}
	h = &timerHandle{}
	i.liveTimers = append(i.liveTimers, h)
	arm()
}

// addSubmitHandler registers cb against the Console's OnSubmit event and
// tracks the unsubscribe function so SetFork can detach it (spec §4.4.2,
// §9 "Event subscription bookkeeping").
func (i *Interpreter) addSubmitHandler(cb func(text string)) {
	unsub := i.console.OnSubmit(func(text string) {
		i.withLock(func() {
			cb(text)
		})
	})
	i.submitSubs = append(i.submitSubs, unsub)
}
