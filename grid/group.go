package grid

// Group is the per-tile execution handle passed to the user body. Its
// coordinates are computed once by the driver before the body runs and are
// immutable for the tile's duration; accessors return copies so a body
// cannot perturb the enumeration.
//
// Transfers are not bound to the group's offset: bodies call Load, Store
// and Empty with whatever base they need (typically WorkOffset), so a
// single tile may address several arrays with independent offsets. Those
// three functions are package-level because Go methods cannot introduce
// the element type parameter.
type Group struct {
	id     []int
	offset []int
	shape  []int
}

// newGroup derives a tile's coordinates from its group index.
func newGroup(index, local, global []int) *Group {
	origin := GroupOrigin(index, local)
	return &Group{
		id:     append([]int(nil), index...),
		offset: origin,
		shape:  GroupExtent(origin, local, global),
	}
}

// Rank returns the dimensionality of the iteration space.
func (g *Group) Rank() int { return len(g.id) }

// GroupID returns the tile's position in group space.
func (g *Group) GroupID() []int { return append([]int(nil), g.id...) }

// WorkOffset returns the tile's origin in the global index space:
// GroupID[d] * local[d] per dimension.
func (g *Group) WorkOffset() []int { return append([]int(nil), g.offset...) }

// GroupShape returns the tile's clipped extent, not the nominal local
// size: interior tiles report the full local size, trailing tiles of a
// non-divisible dimension report the remainder. Callers needing the
// nominal size must keep the local size they passed to the driver.
func (g *Group) GroupShape() []int { return append([]int(nil), g.shape...) }
