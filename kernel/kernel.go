package kernel

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	// MaxTasks is the size of the task table.
	MaxTasks = 16
	// MaxChannels is the size of the channel pool.
	MaxChannels = 8
	// ChannelCapacity is the number of values a channel holds before it starts evicting.
	ChannelCapacity = 16
	// MaxSemaphores is the number of semaphore slots addressable by SemID.
	MaxSemaphores = 16
	// MaxSlots bounds the length of the cyclic-executive table.
	MaxSlots = 32

	// DefaultMaxExecutionTime bounds how long sporadic or idle work may run
	// before the scheduler looks again.
	DefaultMaxExecutionTime Millis = 10
)

const none = -1

var (
	ErrTaskTableFull    = errors.New("task table full")
	ErrChannelTableFull = errors.New("channel table full")
	ErrNoSemaphore      = errors.New("no such semaphore")
	ErrInvalidClass     = errors.New("invalid scheduling class")
	ErrHalted           = errors.New("kernel halted")
)

// Millis is a count of milliseconds since boot.
type Millis uint64

// Name is the class-specific task name: the lookup key of a periodic task,
// or the period in milliseconds of a device task.
type Name uint16

// IdleSlot marks a cyclic-executive slot that is deliberately left idle.
const IdleSlot Name = 0xFFFF

// Slot is one entry of the cyclic-executive table.
type Slot struct {
	Name     Name
	MaxSlice Millis
}

// Timer is the hardware timebase consumed by the kernel: a free-running tick
// counter plus a one-shot alarm.
type Timer interface {
	// Ticks returns the free-running hardware counter. It may wrap.
	Ticks() uint32
	TicksPerMilli() uint32
	// ArmAlarm replaces any pending alarm with one firing fire after ms milliseconds.
	// fire may run on any goroutine.
	ArmAlarm(ms uint32, fire func())
	DisarmAlarm()
	// WaitForInterrupt halts the CPU until an interrupt (the alarm) fires.
	WaitForInterrupt()
}

// Config is the boot-time kernel configuration.
type Config struct {
	// Schedule is the cyclic-executive table, in dispatch order.
	Schedule []Slot
	// MaxExecutionTime bounds unsupervised sporadic/idle execution.
	// Zero selects DefaultMaxExecutionTime.
	MaxExecutionTime Millis
	// Observer, if set, is told about every dispatch.
	Observer Observer
}

// Kernel owns every piece of scheduler state: the task table, the class
// queues, the cyclic-executive table, semaphores and channels.
type Kernel struct {
	timer Timer
	clock clock

	tasks   [MaxTasks]tcb
	idle    tcb
	current *tcb

	device   queue
	sporadic queue

	schedule []Slot
	cursor   int
	maxExec  Millis
	maxAlarm Millis

	sems  [MaxSemaphores]semaphore
	chans [MaxChannels]channel

	// masked is the interrupt mask of whoever holds the CPU. The kernel
	// always runs masked; each task carries its own value across switches.
	masked   bool
	faulting bool

	pending  atomic.Bool
	alarmGen atomic.Uint32

	back     chan handoff
	quit     chan struct{}
	quitOnce sync.Once
	halted   error

	observer Observer
}

// New creates a kernel on top of the given timer.
func New(timer Timer, cfg Config) (*Kernel, error) {
	if timer == nil {
		return nil, errors.New("kernel: nil timer")
	}
	if timer.TicksPerMilli() == 0 {
		return nil, errors.New("kernel: timer reports zero ticks per millisecond")
	}
	if len(cfg.Schedule) > MaxSlots {
		return nil, fmt.Errorf("kernel: schedule has %d slots, max %d", len(cfg.Schedule), MaxSlots)
	}
	for i, s := range cfg.Schedule {
		if s.MaxSlice == 0 {
			return nil, fmt.Errorf("kernel: schedule slot %d has zero max slice", i)
		}
	}

	k := &Kernel{
		timer:    timer,
		schedule: append([]Slot(nil), cfg.Schedule...),
		maxExec:  cfg.MaxExecutionTime,
		maxAlarm: Millis(math.MaxInt32 / timer.TicksPerMilli()),
		masked:   true,
		back:     make(chan handoff),
		quit:     make(chan struct{}),
		observer: cfg.Observer,
	}
	if k.maxExec == 0 {
		k.maxExec = DefaultMaxExecutionTime
	}
	if k.observer == nil {
		k.observer = nopObserver{}
	}
	k.clock.reset(timer)
	k.device.init()
	k.sporadic.init()
	for i := range k.tasks {
		k.tasks[i] = tcb{idx: i, prev: none, next: none}
	}
	for i := range k.sems {
		k.sems[i].waiters.init()
	}
	k.idle = tcb{idx: none, prev: none, next: none, class: ClassIdle, state: StateNew, entry: idleLoop}
	return k, nil
}

// Now returns the software clock as of the last scheduler pass.
func (k *Kernel) Now() Millis { return k.clock.now }

// Halted returns the error that stopped the kernel, or nil.
func (k *Kernel) Halted() error { return k.halted }

// CreateTask registers a new task. It is the boot-time form of Context.CreateTask.
func (k *Kernel) CreateTask(entry Entry, arg int, class Class, name Name) (TaskID, error) {
	defer k.restore(k.disable())
	return k.createTask(entry, arg, class, name)
}

// InitChannel allocates a channel from the pool.
func (k *Kernel) InitChannel() (ChannelID, error) {
	defer k.restore(k.disable())
	return k.initChannel()
}

// InitSemaphore sets semaphore id to count. Reinitializing a semaphore that
// still has waiters is fatal.
func (k *Kernel) InitSemaphore(id SemID, count int) error {
	defer k.restore(k.disable())
	return k.initSemaphore(id, count)
}

// Tasks returns a snapshot of the live tasks in table order.
//
// It must not be called while Run is active on another goroutine.
func (k *Kernel) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, MaxTasks)
	for i := range k.tasks {
		if k.tasks[i].id == InvalidTask {
			continue
		}
		out = append(out, k.tasks[i].info())
	}
	return out
}

// Shutdown releases the fibers of every suspended task. The kernel cannot be
// stepped afterwards.
func (k *Kernel) Shutdown() {
	k.quitOnce.Do(func() {
		close(k.quit)
		k.alarmGen.Add(1)
		k.timer.DisarmAlarm()
	})
}

func (k *Kernel) stopped() bool {
	select {
	case <-k.quit:
		return true
	default:
		return false
	}
}

type invariantError struct {
	msg string
}

func (e invariantError) Error() string { return "invariant violation: " + e.msg }

// fatalf reports a broken kernel invariant. It never returns; the panic is
// recovered at the fiber or scheduler boundary and halts the kernel.
func (k *Kernel) fatalf(format string, args ...any) {
	k.faulting = true
	panic(invariantError{msg: fmt.Sprintf(format, args...)})
}

func (k *Kernel) halt(info PanicInfo) error {
	k.faulting = true
	triggerPanic(info)
	if info.TaskID != InvalidTask {
		k.halted = fmt.Errorf("%w: task %d: %v", ErrHalted, info.TaskID, info.Value)
	} else {
		k.halted = fmt.Errorf("%w: %v", ErrHalted, info.Value)
	}
	k.Shutdown()
	return k.halted
}
