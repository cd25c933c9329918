package interfaces

// -----------------------------------------------------------------------------
// IWorkPool hands out work items (symbols) to workers at most once.
// -----------------------------------------------------------------------------

type IWorkPool interface {

	// Take removes and returns the first available item; ok is false when the pool is exhausted.
	Take() (item string, ok bool)

	// -----------------------------------------------------------------------------

	// Release returns a previously taken item to the back of the pool.
	Release(item string) bool

	// -----------------------------------------------------------------------------

	// Replenish appends items that are neither available nor currently assigned.
	// It returns how many were added.
	Replenish(items ...string) int

	// -----------------------------------------------------------------------------

	// Remaining returns the number of assignable items.
	Remaining() int

	// -----------------------------------------------------------------------------

	// Available returns a copy of the assignable items in hand-out order.
	Available() []string
}
