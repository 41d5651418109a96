package kernel

// Observer receives scheduling events. Calls are made on the scheduler
// goroutine with interrupts masked; implementations must not call back into
// the kernel.
type Observer interface {
	// Dispatched is called just before the task gets the CPU.
	Dispatched(task TaskInfo, now Millis)
	// Returned is called once the kernel has the CPU back.
	Returned(task TaskInfo, why SwitchReason, now Millis)
}

type nopObserver struct{}

func (nopObserver) Dispatched(TaskInfo, Millis)             {}
func (nopObserver) Returned(TaskInfo, SwitchReason, Millis) {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) Dispatched(task TaskInfo, now Millis) {
	for _, ob := range o {
		ob.Dispatched(task, now)
	}
}

func (o Observers) Returned(task TaskInfo, why SwitchReason, now Millis) {
	for _, ob := range o {
		ob.Returned(task, why, now)
	}
}
