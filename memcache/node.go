package memcache

/*
node.go holds the arena slot representation of an LRU entry.

================================================================================
ARENA REPRESENTATION
================================================================================

The teacher cache (Krishna8167/tempuscache) backs its LRU ordering with
container/list, which allocates one *list.Element per entry and links
entries through pointer prev/next fields — a cycle in the ownership graph
that the garbage collector has to walk.

This cache instead keeps entries in a single pre-sized slice, `nodes`,
and links them by slot index. prev/next are ints (noIndex sentinel = -1)
rather than pointers, so:

  - there is no pointer cycle for the GC to trace,
  - splicing an entry to the front is an index swap, not an allocation,
  - freed slots are reused via a singly-linked free list through `next`.

STRUCTURE FIELDS

key        -> cache key occupying this slot
value      -> opaque owned value (nil after eviction, pending destruction)
cost       -> embedder-chosen magnitude, used by the cost trim
accessTime -> UnixNano of last read or write (monotonic-ish via time.Now)
prev, next -> slot indices in the doubly linked list, or noIndex
*/

const noIndex = -1

type node struct {
	key        string
	value      interface{}
	cost       uint64
	accessTime int64
	prev, next int
}

// arena is the vector-of-slots + hash-index pair backing the LRU list.
// It plays the role of the spec's LinkedMap: a mapping from key to node
// plus head/tail references and running totals.
type arena struct {
	nodes     []node
	index     map[string]int // key -> slot
	head, tail int           // noIndex when empty
	freeHead  int            // head of the free-slot list, threaded through node.next

	totalCost  uint64
	totalCount int
}

func newArena(capacityHint int) *arena {
	if capacityHint <= 0 {
		capacityHint = 16
	}
	return &arena{
		nodes:    make([]node, 0, capacityHint),
		index:    make(map[string]int, capacityHint),
		head:     noIndex,
		tail:     noIndex,
		freeHead: noIndex,
	}
}

// alloc returns a fresh slot index, reusing a freed slot when available.
func (a *arena) alloc() int {
	if a.freeHead != noIndex {
		i := a.freeHead
		a.freeHead = a.nodes[i].next
		return i
	}
	a.nodes = append(a.nodes, node{})
	return len(a.nodes) - 1
}

// free returns a slot to the free list. The caller must have already
// unlinked it from the doubly linked list and the index map.
func (a *arena) free(i int) {
	a.nodes[i] = node{}
	a.nodes[i].next = a.freeHead
	a.freeHead = i
}

func (a *arena) unlink(i int) {
	n := &a.nodes[i]
	if n.prev != noIndex {
		a.nodes[n.prev].next = n.next
	} else {
		a.head = n.next
	}
	if n.next != noIndex {
		a.nodes[n.next].prev = n.prev
	} else {
		a.tail = n.prev
	}
	n.prev, n.next = noIndex, noIndex
}

func (a *arena) pushFront(i int) {
	n := &a.nodes[i]
	n.prev = noIndex
	n.next = a.head
	if a.head != noIndex {
		a.nodes[a.head].prev = i
	}
	a.head = i
	if a.tail == noIndex {
		a.tail = i
	}
}

func (a *arena) moveToFront(i int) {
	if a.head == i {
		return
	}
	a.unlink(i)
	a.pushFront(i)
}
