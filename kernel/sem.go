package kernel

// SemID addresses one of the MaxSemaphores semaphore slots.
type SemID uint8

type semaphore struct {
	count int
	// woken counts units signal has handed to readied waiters that have not
	// run yet. Those units are not available to new arrivals.
	woken   int
	waiters queue
}

func (k *Kernel) initSemaphore(id SemID, count int) error {
	if int(id) >= MaxSemaphores {
		return ErrNoSemaphore
	}
	s := &k.sems[id]
	if !s.waiters.empty() || s.woken > 0 {
		k.fatalf("semaphore %d reinitialized with %d waiters", id, s.waiters.size+s.woken)
	}
	s.count = count
	s.woken = 0
	return nil
}

func (k *Kernel) semaphore(id SemID) *semaphore {
	if int(id) >= MaxSemaphores {
		k.fatalf("semaphore %d out of range", id)
	}
	return &k.sems[id]
}

// wait runs in a critical section. A task that has to block is parked on the
// wait queue. signal increments the count and reserves the unit for the waiter
// it readies, so a task arriving before that waiter runs blocks too, and the
// single decrement after waking can never take the count below zero.
func (k *Kernel) wait(t *tcb, s *semaphore) {
	if s.count-s.woken <= 0 {
		if t.idx == none {
			k.fatalf("idle task blocked on a semaphore")
		}
		t.state = StateWaiting
		k.removeFromClass(t)
		k.queueAdd(&s.waiters, t)
		k.suspend(t, SwitchBlock)
		s.woken--
	}
	s.count--
}

func (k *Kernel) signal(s *semaphore) {
	s.count++
	t := k.queueHead(&s.waiters)
	if t == nil {
		return
	}
	k.queueRemove(&s.waiters, t)
	s.woken++
	t.state = StateReady
	k.addToClass(t)
}
