package navigation

import "github.com/djefts/pacmanAI/core"

// DistanceCache keeps one BFS field per target over a static wall grid.
// Not safe for concurrent use.
type DistanceCache struct {
	Width, Height int
	isBlocked     WallChecker
	fields        map[core.Point]*DistanceField

	// Computes counts field builds, cache hits excluded
	Computes int
}

// NewDistanceCache creates a cache bound to a fixed wall layout
func NewDistanceCache(width, height int, isBlocked WallChecker) *DistanceCache {
	return &DistanceCache{
		Width:     width,
		Height:    height,
		isBlocked: isBlocked,
		fields:    make(map[core.Point]*DistanceField, 4),
	}
}

// Field returns the distance field toward target, computing it on first use
func (c *DistanceCache) Field(target core.Point) *DistanceField {
	if f, ok := c.fields[target]; ok {
		return f
	}
	f := NewDistanceField(c.Width, c.Height)
	f.Compute(target, c.isBlocked)
	c.fields[target] = f
	c.Computes++
	return f
}

// Distance returns maze steps between a and b, Unreachable if disconnected
func (c *DistanceCache) Distance(a, b core.Point) int {
	return c.Field(b).GetDistance(a.X, a.Y)
}

// Invalidate drops every cached field, used after walls change
func (c *DistanceCache) Invalidate() {
	clear(c.fields)
}
