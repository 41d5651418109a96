package kernel

// queue is an intrusive circular doubly-linked list over the task table.
// Links are table indices. A single member links to itself.
type queue struct {
	head int
	size int
}

func (q *queue) init() {
	q.head = none
	q.size = 0
}

func (q *queue) empty() bool { return q.head == none }

// queueAdd links t in just behind the head, so the head reaches it last.
func (k *Kernel) queueAdd(q *queue, t *tcb) {
	if t.owner != nil {
		k.fatalf("task %d is already queued", t.id)
	}
	if t.idx == none {
		k.fatalf("idle task cannot be queued")
	}

	if q.head == none {
		t.prev = t.idx
		t.next = t.idx
		q.head = t.idx
	} else {
		head := &k.tasks[q.head]
		tail := &k.tasks[head.prev]
		t.prev = tail.idx
		t.next = head.idx
		tail.next = t.idx
		head.prev = t.idx
	}
	t.owner = q
	q.size++
}

// queueRemove unlinks t from q. Removing the head advances the head.
func (k *Kernel) queueRemove(q *queue, t *tcb) {
	if t.owner != q {
		k.fatalf("task %d removed from a queue that does not hold it", t.id)
	}

	if q.size == 1 {
		q.head = none
	} else {
		k.tasks[t.prev].next = t.next
		k.tasks[t.next].prev = t.prev
		if q.head == t.idx {
			q.head = t.next
		}
	}
	t.prev = none
	t.next = none
	t.owner = nil
	q.size--
}

// queueRotate advances the head by one.
func (k *Kernel) queueRotate(q *queue) {
	if q.size > 1 {
		q.head = k.tasks[q.head].next
	}
}

func (k *Kernel) queueHead(q *queue) *tcb {
	if q.head == none {
		return nil
	}
	return &k.tasks[q.head]
}
