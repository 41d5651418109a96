package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PanicInfo describes the fault that halted the kernel.
//
// TaskID is InvalidTask when the fault was raised on the scheduler side.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

func (p PanicInfo) String() string {
	if p.TaskID == InvalidTask {
		return fmt.Sprintf("kernel: %v", p.Value)
	}
	return fmt.Sprintf("task %d: %v", p.TaskID, p.Value)
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether any kernel in the process has halted.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide halt handler.
//
// The handler is invoked at most once (on the first halt), on the scheduler
// goroutine. It must not panic and should not block.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		if len(info.Stack) == 0 {
			info.Stack = captureStack()
		}
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}
