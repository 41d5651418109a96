package kernel

import "runtime"

// SwitchReason says why a task handed the CPU back to the kernel.
type SwitchReason uint8

const (
	SwitchYield SwitchReason = iota + 1
	SwitchPreempt
	SwitchBlock
	SwitchTerminate
	SwitchFault
)

func (r SwitchReason) String() string {
	switch r {
	case SwitchYield:
		return "yield"
	case SwitchPreempt:
		return "preempt"
	case SwitchBlock:
		return "block"
	case SwitchTerminate:
		return "terminate"
	case SwitchFault:
		return "fault"
	default:
		return "unknown"
	}
}

type handoff struct {
	reason SwitchReason
	fault  PanicInfo
}

// dispatch hands the CPU to t and returns once t gives it back.
//
// A Ready task resumes its saved continuation. A New task gets a fresh fiber
// whose first act is calling the entry procedure.
func (k *Kernel) dispatch(t *tcb) handoff {
	info := t.info()
	k.current = t
	k.observer.Dispatched(info, k.clock.now)

	switch t.state {
	case StateReady:
		t.resume <- struct{}{}
	case StateNew:
		t.state = StateReady
		t.resume = make(chan struct{})
		go k.runFiber(t)
	default:
		k.current = nil
		k.fatalf("dispatch of task %d in state %s", t.id, t.state)
	}

	h := <-k.back
	k.masked = true
	k.disarmAlarm()
	k.pending.Store(false)
	k.current = nil
	k.observer.Returned(info, h.reason, k.clock.now)
	return h
}

// runFiber is the body of a task's goroutine. Every way out of it (return,
// Terminate, panic) reports back to the kernel from the deferred function,
// after the task's own deferred calls have run.
func (k *Kernel) runFiber(t *tcb) {
	ctx := &Context{k: k, t: t}
	defer func() {
		r := recover()
		if k.stopped() {
			return
		}
		if r == nil && !ctx.exited {
			r = "task goroutine exited without terminating"
		}
		if r != nil {
			k.back <- handoff{
				reason: SwitchFault,
				fault:  PanicInfo{TaskID: t.id, Value: r, Stack: captureStack()},
			}
			return
		}
		k.back <- handoff{reason: SwitchTerminate}
	}()

	k.masked = false
	t.entry(ctx)
	ctx.Terminate()
}

// suspend saves the running task's continuation and returns control to the
// kernel. Yield, blocking waits and preemption all come through here. It
// returns when the kernel dispatches t again.
func (k *Kernel) suspend(t *tcb, why SwitchReason) {
	t.savedMask = k.masked
	k.back <- handoff{reason: why}
	select {
	case <-t.resume:
	case <-k.quit:
		runtime.Goexit()
	}
	k.masked = t.savedMask
}

// idleLoop is the entry of the idle pseudo-task. Once the kernel is shut
// down no alarm will fire, so it hands the CPU back on its own.
func idleLoop(ctx *Context) {
	k := ctx.k
	for {
		k.timer.WaitForInterrupt()
		if k.stopped() {
			k.suspend(ctx.t, SwitchYield)
		}
		ctx.Safepoint()
	}
}
