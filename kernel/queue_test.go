package kernel

import "testing"

// checkRing verifies the ring invariants of q and returns its members in
// order from the head.
func checkRing(t *testing.T, k *Kernel, q *queue) []int {
	t.Helper()
	if q.empty() {
		if q.size != 0 {
			t.Fatalf("empty queue has size %d", q.size)
		}
		return nil
	}
	var order []int
	i := q.head
	for n := 0; n < q.size; n++ {
		tk := &k.tasks[i]
		if tk.owner != q {
			t.Fatalf("task %d in ring is not owned by the queue", i)
		}
		if k.tasks[tk.next].prev != i {
			t.Fatalf("task %d: next.prev = %d", i, k.tasks[tk.next].prev)
		}
		order = append(order, i)
		i = tk.next
	}
	if i != q.head {
		t.Fatalf("ring of size %d does not close: ended at %d, head %d", q.size, i, q.head)
	}
	return order
}

func sameOrder(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueueRing(t *testing.T) {
	k, _ := newTestKernel(t, Config{})
	var q queue
	q.init()

	for i := 0; i < 4; i++ {
		k.tasks[i].id = TaskID(i + 1)
	}

	k.queueAdd(&q, &k.tasks[0])
	if tk := &k.tasks[0]; tk.next != 0 || tk.prev != 0 {
		t.Fatalf("single member links = %d/%d, want self-loop", tk.prev, tk.next)
	}
	k.queueAdd(&q, &k.tasks[1])
	k.queueAdd(&q, &k.tasks[2])
	k.queueAdd(&q, &k.tasks[3])
	if got := checkRing(t, k, &q); !sameOrder(got, []int{0, 1, 2, 3}) {
		t.Fatalf("order = %v, want [0 1 2 3]", got)
	}

	k.queueRotate(&q)
	if got := checkRing(t, k, &q); !sameOrder(got, []int{1, 2, 3, 0}) {
		t.Fatalf("after rotate order = %v", got)
	}

	// Adding goes behind the current head.
	k.queueRemove(&q, &k.tasks[0])
	k.queueAdd(&q, &k.tasks[0])
	if got := checkRing(t, k, &q); !sameOrder(got, []int{1, 2, 3, 0}) {
		t.Fatalf("after re-add order = %v", got)
	}

	k.queueRemove(&q, &k.tasks[1])
	if got := checkRing(t, k, &q); !sameOrder(got, []int{2, 3, 0}) {
		t.Fatalf("after removing head order = %v", got)
	}
	k.queueRemove(&q, &k.tasks[3])
	k.queueRemove(&q, &k.tasks[0])
	if got := checkRing(t, k, &q); !sameOrder(got, []int{2}) {
		t.Fatalf("order = %v, want [2]", got)
	}
	k.queueRotate(&q)
	k.queueRemove(&q, &k.tasks[2])
	if !q.empty() || q.size != 0 {
		t.Fatalf("queue not empty: head %d size %d", q.head, q.size)
	}
	if k.queueHead(&q) != nil {
		t.Fatalf("queueHead() of empty queue != nil")
	}
}

func TestQueueOwnership(t *testing.T) {
	k, _ := newTestKernel(t, Config{})
	var a, b queue
	a.init()
	b.init()
	k.tasks[0].id = 1

	k.queueAdd(&a, &k.tasks[0])

	mustPanic(t, "double add", func() { k.queueAdd(&b, &k.tasks[0]) })
	mustPanic(t, "foreign remove", func() { k.queueRemove(&b, &k.tasks[0]) })
	mustPanic(t, "idle add", func() { k.queueAdd(&a, &k.idle) })
}

func mustPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("%s: no panic", what)
		} else if _, ok := r.(invariantError); !ok {
			t.Fatalf("%s: panic %v, want invariantError", what, r)
		}
	}()
	fn()
}
