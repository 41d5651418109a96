package kernel

import (
	"errors"
	"testing"
)

func TestCreateTaskDistinctIDsUntilFull(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	seen := make(map[TaskID]bool)
	for i := 0; i < MaxTasks; i++ {
		class := []Class{ClassDevice, ClassPeriodic, ClassSporadic}[i%3]
		id := mustCreate(t, k, forever, i, class, Name(i+1))
		if id == InvalidTask || seen[id] {
			t.Fatalf("CreateTask() #%d = %d, want a fresh valid ID", i, id)
		}
		seen[id] = true
	}

	if _, err := k.CreateTask(forever, 0, ClassSporadic, 0); !errors.Is(err, ErrTaskTableFull) {
		t.Fatalf("CreateTask() on full table error = %v, want ErrTaskTableFull", err)
	}
	if got := len(k.Tasks()); got != MaxTasks {
		t.Fatalf("len(Tasks()) = %d, want %d", got, MaxTasks)
	}
}

func TestCreateTaskInvalidClass(t *testing.T) {
	k, _ := newTestKernel(t, Config{})
	for _, class := range []Class{0, ClassIdle, 42} {
		if _, err := k.CreateTask(forever, 0, class, 0); !errors.Is(err, ErrInvalidClass) {
			t.Fatalf("CreateTask(class %d) error = %v, want ErrInvalidClass", class, err)
		}
	}
}

func TestCreateTaskQueues(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	mustCreate(t, k, forever, 0, ClassDevice, 5)
	mustCreate(t, k, forever, 0, ClassPeriodic, 1)
	mustCreate(t, k, forever, 0, ClassSporadic, 0)
	mustCreate(t, k, forever, 0, ClassSporadic, 0)

	if k.device.size != 1 || k.sporadic.size != 2 {
		t.Fatalf("queue sizes device=%d sporadic=%d, want 1 and 2", k.device.size, k.sporadic.size)
	}
	if p := &k.tasks[1]; p.owner != nil {
		t.Fatalf("periodic task is queued")
	}
	for _, info := range k.Tasks() {
		if info.State != StateNew || info.NextRun != 0 {
			t.Fatalf("new task %+v, want state new and zero next run", info)
		}
	}
}

func TestEntryReturnTerminatesAndSlotIsReused(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	ran := 0
	id := mustCreate(t, k, func(c *Context) {
		ran++
		if c.TaskID() != 1 || c.Arg() != 7 || c.Class() != ClassSporadic {
			t.Errorf("context = id %d arg %d class %s", c.TaskID(), c.Arg(), c.Class())
		}
	}, 7, ClassSporadic, 0)
	if id != 1 {
		t.Fatalf("first ID = %d, want 1", id)
	}

	steps(t, k, 1)
	if ran != 1 {
		t.Fatalf("task ran %d times, want 1", ran)
	}
	if n := len(k.Tasks()); n != 0 || !k.sporadic.empty() {
		t.Fatalf("after return: %d tasks, sporadic empty=%v", n, k.sporadic.empty())
	}

	if id := mustCreate(t, k, forever, 0, ClassSporadic, 0); id != 1 {
		t.Fatalf("reused ID = %d, want 1", id)
	}
}

func TestTerminateRunsDeferredCalls(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	var order []string
	mustCreate(t, k, func(c *Context) {
		defer func() { order = append(order, "deferred") }()
		order = append(order, "body")
		c.Terminate()
		order = append(order, "unreachable")
	}, 0, ClassSporadic, 0)

	steps(t, k, 2)
	if len(order) != 2 || order[0] != "body" || order[1] != "deferred" {
		t.Fatalf("order = %v, want [body deferred]", order)
	}
	if n := len(k.Tasks()); n != 0 {
		t.Fatalf("%d tasks left", n)
	}
}

func TestTaskCreatesTask(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	var child TaskID
	var childRan bool
	mustCreate(t, k, func(c *Context) {
		id, err := c.CreateTask(func(*Context) { childRan = true }, 0, ClassSporadic, 0)
		if err != nil {
			t.Errorf("CreateTask() error = %v", err)
		}
		child = id
	}, 0, ClassSporadic, 0)

	steps(t, k, 2)
	if child != 2 || !childRan {
		t.Fatalf("child = %d ran = %v, want 2 true", child, childRan)
	}
}
