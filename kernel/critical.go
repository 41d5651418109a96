package kernel

// disable masks interrupts and returns the previous mask. Pair every call with
// restore, usually as
//
//	defer k.restore(k.disable())
func (k *Kernel) disable() bool {
	prev := k.masked
	k.masked = true
	return prev
}

// restore puts back the mask saved by disable. Only the outermost section
// unmasks, and unmasking delivers a latched preemption.
func (k *Kernel) restore(prev bool) {
	if prev || k.stopped() {
		return
	}
	k.masked = false
	k.preemptPoint()
}

// preemptPoint suspends the running task if the alarm fired while it held the
// CPU. It is a no-op on the kernel side and inside critical sections.
func (k *Kernel) preemptPoint() {
	if k.masked || k.faulting {
		return
	}
	t := k.current
	if t == nil || !k.pending.Load() {
		return
	}
	k.pending.Store(false)
	k.suspend(t, SwitchPreempt)
}

// interrupt is the alarm handler. It may run on any goroutine, so it only
// latches the request; the running task takes it at its next preemption point.
func (k *Kernel) interrupt(gen uint32) {
	if k.alarmGen.Load() != gen {
		return
	}
	k.pending.Store(true)
}

// armAlarm arms the timer for deadline. Delays are clamped to half the tick
// counter's range so the clock never misses a wrap.
func (k *Kernel) armAlarm(deadline Millis) {
	now := k.clock.now
	var ms uint32
	if deadline > now {
		ms = uint32(min(deadline-now, k.maxAlarm))
	}
	gen := k.alarmGen.Add(1)
	k.timer.ArmAlarm(ms, func() { k.interrupt(gen) })
}

func (k *Kernel) disarmAlarm() {
	k.alarmGen.Add(1)
	k.timer.DisarmAlarm()
}
