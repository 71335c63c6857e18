package core

// Point represents a 2D grid coordinate, Y grows downward
type Point struct {
	X, Y int
}

// Add returns p offset by d's unit vector
func (p Point) Add(d Direction) Point {
	v := d.Vector()
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Manhattan returns the L1 distance between two points
func (p Point) Manhattan(o Point) int {
	dx := p.X - o.X
	dy := p.Y - o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
