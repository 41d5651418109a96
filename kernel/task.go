package kernel

// TaskID identifies a live task. IDs are reused after termination.
type TaskID uint8

// InvalidTask is never the ID of a live task. The idle pseudo-task reports it.
const InvalidTask TaskID = 0

// Entry is a task's entry procedure. Returning from it terminates the task.
type Entry func(*Context)

// Class is a task's scheduling class.
type Class uint8

const (
	ClassDevice Class = iota + 1
	ClassPeriodic
	ClassSporadic
	ClassIdle
)

func (c Class) String() string {
	switch c {
	case ClassDevice:
		return "device"
	case ClassPeriodic:
		return "periodic"
	case ClassSporadic:
		return "sporadic"
	case ClassIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// State is a task's lifecycle state.
type State uint8

const (
	// StateNew tasks have never executed.
	StateNew State = iota
	StateReady
	StateWaiting
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// TaskInfo is a read-only view of a task control block.
type TaskInfo struct {
	ID      TaskID
	Class   Class
	Name    Name
	Arg     int
	State   State
	NextRun Millis
}

type tcb struct {
	id    TaskID
	idx   int
	class Class
	name  Name
	arg   int
	entry Entry
	state State

	prev, next int
	owner      *queue

	nextRun Millis

	// resume is the saved continuation: the fiber parks on it while suspended.
	resume    chan struct{}
	savedMask bool
}

func (t *tcb) info() TaskInfo {
	return TaskInfo{
		ID:      t.id,
		Class:   t.class,
		Name:    t.name,
		Arg:     t.arg,
		State:   t.state,
		NextRun: t.nextRun,
	}
}

// createTask must run inside a critical section.
func (k *Kernel) createTask(entry Entry, arg int, class Class, name Name) (TaskID, error) {
	switch class {
	case ClassDevice, ClassPeriodic, ClassSporadic:
	default:
		return InvalidTask, ErrInvalidClass
	}
	if entry == nil {
		k.fatalf("create task with nil entry")
	}

	for i := range k.tasks {
		t := &k.tasks[i]
		if t.id != InvalidTask {
			continue
		}
		*t = tcb{
			id:    TaskID(i + 1),
			idx:   i,
			class: class,
			name:  name,
			arg:   arg,
			entry: entry,
			state: StateNew,
			prev:  none,
			next:  none,
		}
		k.addToClass(t)
		return t.id, nil
	}
	return InvalidTask, ErrTaskTableFull
}

// exit frees the slot of t and unlinks it from its class queue. Interrupts
// stay masked: control goes straight back to the kernel.
func (k *Kernel) exit(t *tcb) {
	k.disable()
	if t.idx == none {
		k.fatalf("idle task terminated")
	}
	k.removeFromClass(t)
	k.current = nil
	t.id = InvalidTask
	t.entry = nil
	t.resume = nil
}

func (k *Kernel) addToClass(t *tcb) {
	switch t.class {
	case ClassSporadic:
		k.queueAdd(&k.sporadic, t)
	case ClassDevice:
		k.queueAdd(&k.device, t)
	}
}

func (k *Kernel) removeFromClass(t *tcb) {
	switch t.class {
	case ClassSporadic:
		k.queueRemove(&k.sporadic, t)
	case ClassDevice:
		k.queueRemove(&k.device, t)
	}
}

// findPeriodic returns the live periodic task called name, skipping tasks
// blocked on a semaphore.
func (k *Kernel) findPeriodic(name Name) *tcb {
	for i := range k.tasks {
		t := &k.tasks[i]
		if t.id == InvalidTask || t.class != ClassPeriodic || t.name != name {
			continue
		}
		if t.state == StateWaiting {
			continue
		}
		return t
	}
	return nil
}
