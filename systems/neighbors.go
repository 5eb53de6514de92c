package systems

// NeighborLists stores per-particle neighbor id lists in one flat arena.
// Buffers are reused across steps.
type NeighborLists struct {
	ids     []int
	offsets []int // len = particles+1; list i is ids[offsets[i]:offsets[i+1]]
}

// NewNeighborLists preallocates for n particles with about perParticle neighbors each.
func NewNeighborLists(n, perParticle int) *NeighborLists {
	nl := &NeighborLists{
		ids:     make([]int, 0, n*perParticle),
		offsets: make([]int, 1, n+1),
	}
	return nl
}

// Reset clears all lists, keeping capacity.
func (nl *NeighborLists) Reset() {
	nl.ids = nl.ids[:0]
	if cap(nl.offsets) == 0 {
		nl.offsets = make([]int, 1)
	}
	nl.offsets = nl.offsets[:1]
	nl.offsets[0] = 0
}

// Append adds the next particle's list.
func (nl *NeighborLists) Append(ids ...int) {
	nl.ids = append(nl.ids, ids...)
	nl.close()
}

// close ends the list currently being appended into ids.
func (nl *NeighborLists) close() {
	nl.offsets = append(nl.offsets, len(nl.ids))
}

// Len returns the number of lists.
func (nl *NeighborLists) Len() int {
	if len(nl.offsets) == 0 {
		return 0
	}
	return len(nl.offsets) - 1
}

// Of returns the neighbor list of particle i. The slice aliases the arena.
func (nl *NeighborLists) Of(i int) []int {
	return nl.ids[nl.offsets[i]:nl.offsets[i+1]:nl.offsets[i+1]]
}

// Total returns the number of stored neighbor entries.
func (nl *NeighborLists) Total() int {
	return len(nl.ids)
}

// Concat replaces nl with the given partial lists joined in order.
func (nl *NeighborLists) Concat(parts ...*NeighborLists) {
	nl.Reset()
	for _, p := range parts {
		base := len(nl.ids)
		nl.ids = append(nl.ids, p.ids...)
		for _, off := range p.offsets[1:] {
			nl.offsets = append(nl.offsets, base+off)
		}
	}
}
