package kernel

import "runtime"

// Context provides task-local access to kernel operations. A task receives
// its Context as the argument of its entry procedure and must not share it.
type Context struct {
	k      *Kernel
	t      *tcb
	exited bool
}

func (c *Context) id() TaskID {
	if c.t == nil {
		return InvalidTask
	}
	return c.t.id
}

// TaskID returns the current task ID (InvalidTask for the idle task).
func (c *Context) TaskID() TaskID { return c.id() }

// Class returns the scheduling class of the current task.
func (c *Context) Class() Class { return c.t.class }

// Arg returns the argument captured when the task was created.
func (c *Context) Arg() int { return c.t.arg }

// Now returns the software clock as of the pass that dispatched this task.
func (c *Context) Now() Millis { return c.k.clock.now }

// CreateTask creates a new task. See Kernel.CreateTask.
func (c *Context) CreateTask(entry Entry, arg int, class Class, name Name) (TaskID, error) {
	defer c.k.restore(c.k.disable())
	return c.k.createTask(entry, arg, class, name)
}

// Terminate ends the current task. It never returns.
//
// Deferred calls of the task still run, before the kernel regains the CPU.
func (c *Context) Terminate() {
	c.exited = true
	c.k.exit(c.t)
	runtime.Goexit()
}

// Yield gives the CPU back to the kernel. A sporadic task moves the head of
// the sporadic queue on, so its peers get their turn.
func (c *Context) Yield() {
	k := c.k
	prev := k.disable()
	if c.t.class == ClassSporadic {
		k.queueRotate(&k.sporadic)
	}
	k.suspend(c.t, SwitchYield)
	k.restore(prev)
}

// Safepoint lets a pending preemption take effect. Long-running loops that
// make no other kernel calls should call it regularly.
func (c *Context) Safepoint() {
	c.k.preemptPoint()
}

// InitChannel allocates a channel. See Kernel.InitChannel.
func (c *Context) InitChannel() (ChannelID, error) {
	defer c.k.restore(c.k.disable())
	return c.k.initChannel()
}

// Write appends v to channel id, evicting the oldest value when full.
func (c *Context) Write(id ChannelID, v int) {
	defer c.k.restore(c.k.disable())
	c.k.channel(id).write(v)
}

// Read removes the oldest value of channel id. ok is false when it is empty.
func (c *Context) Read(id ChannelID) (v int, ok bool) {
	defer c.k.restore(c.k.disable())
	return c.k.channel(id).read()
}

// InitSemaphore sets semaphore id to count. See Kernel.InitSemaphore.
func (c *Context) InitSemaphore(id SemID, count int) error {
	defer c.k.restore(c.k.disable())
	return c.k.initSemaphore(id, count)
}

// Wait acquires one unit of semaphore id, blocking while none is available.
func (c *Context) Wait(id SemID) {
	k := c.k
	defer k.restore(k.disable())
	k.wait(c.t, k.semaphore(id))
}

// Signal releases one unit of semaphore id and readies its oldest waiter.
func (c *Context) Signal(id SemID) {
	k := c.k
	defer k.restore(k.disable())
	k.signal(k.semaphore(id))
}
