package kernel

import (
	"context"
	"errors"
)

// Run drives the scheduler until ctx is done, the kernel halts or Shutdown is
// called. The context is checked between passes, never while a task holds the
// CPU.
func (k *Kernel) Run(ctx context.Context) error {
	defer k.Shutdown()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if k.stopped() {
			return k.halted
		}
		if err := k.Step(); err != nil {
			return err
		}
	}
}

// Step performs one scheduler pass: it picks a task, arms the preemption
// alarm where the class calls for one, and runs the task until it yields,
// blocks, is preempted or terminates.
func (k *Kernel) Step() (err error) {
	if k.halted != nil {
		return k.halted
	}
	if k.stopped() {
		return errors.New("kernel: step after shutdown")
	}

	defer func() {
		if r := recover(); r != nil {
			err = k.halt(PanicInfo{Value: r})
		}
	}()

	h := k.pass()
	if h.reason == SwitchFault {
		return k.halt(h.fault)
	}
	return nil
}

func (k *Kernel) pass() handoff {
	now := k.clock.update()

	var (
		deadline Millis
		known    bool
	)

	if !k.device.empty() {
		if t := k.dueDevice(now); t != nil {
			if t.state == StateNew {
				t.nextRun = now + Millis(t.name)
			} else {
				t.nextRun += Millis(t.name)
			}
			// Device tasks run unsupervised until they give the CPU back.
			return k.dispatch(t)
		}
		deadline = k.nextDevice()
		known = true
	}

	if len(k.schedule) > 0 {
		slot := k.schedule[k.cursor]
		if end := now + slot.MaxSlice; !known || end < deadline {
			deadline = end
			known = true
		}

		var t *tcb
		if slot.Name != IdleSlot {
			t = k.findPeriodic(slot.Name)
		}
		k.cursor = (k.cursor + 1) % len(k.schedule)

		if t != nil {
			k.armAlarm(deadline)
			return k.dispatch(t)
		}
	}

	if !known {
		deadline = now + k.maxExec
	}

	t := k.queueHead(&k.sporadic)
	if t == nil {
		t = &k.idle
	}
	k.armAlarm(deadline)
	return k.dispatch(t)
}

// dueDevice scans the device queue from its head for a task whose next run
// time has arrived.
func (k *Kernel) dueDevice(now Millis) *tcb {
	i := k.device.head
	for n := 0; n < k.device.size; n++ {
		t := &k.tasks[i]
		if t.nextRun <= now {
			return t
		}
		i = t.next
	}
	return nil
}

func (k *Kernel) nextDevice() Millis {
	i := k.device.head
	earliest := k.tasks[i].nextRun
	for n := 0; n < k.device.size; n++ {
		t := &k.tasks[i]
		if t.nextRun < earliest {
			earliest = t.nextRun
		}
		i = t.next
	}
	return earliest
}
