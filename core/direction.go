package core

import "fmt"

// Direction is a single agent move
type Direction int8

const (
	North Direction = iota
	South
	East
	West
	Stop
)

// Cardinals lists the four movement directions in draw order
var Cardinals = [4]Direction{North, South, East, West}

var dirNames = [...]string{
	North: "North",
	South: "South",
	East:  "East",
	West:  "West",
	Stop:  "Stop",
}

// Unit vectors, screen coordinates (North is -Y)
var dirVectors = [...]Point{
	North: {0, -1},
	South: {0, 1},
	East:  {1, 0},
	West:  {-1, 0},
	Stop:  {0, 0},
}

// Valid reports whether d belongs to the move alphabet
func (d Direction) Valid() bool {
	return d >= North && d <= Stop
}

// IsCardinal reports whether d is one of the four movement directions
func (d Direction) IsCardinal() bool {
	return d >= North && d <= West
}

// Vector returns the unit offset of d, zero for Stop and invalid values
func (d Direction) Vector() Point {
	if !d.Valid() {
		return Point{}
	}
	return dirVectors[d]
}

// Reverse returns the opposite direction, Stop maps to itself
func (d Direction) Reverse() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
	return dirNames[d]
}

// Short returns the single-letter form used in compact path output, 'X' for Stop
func (d Direction) Short() byte {
	switch {
	case !d.Valid():
		return '?'
	case d == Stop:
		return 'X'
	}
	return dirNames[d][0]
}

// ParseDirection accepts full names or single letters, case-insensitive
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "N", "n", "North", "north", "NORTH":
		return North, nil
	case "S", "s", "South", "south", "SOUTH":
		return South, nil
	case "E", "e", "East", "east", "EAST":
		return East, nil
	case "W", "w", "West", "west", "WEST":
		return West, nil
	case "X", "x", "Stop", "stop", "STOP":
		return Stop, nil
	}
	return Stop, fmt.Errorf("unknown direction %q", s)
}

// FormatPath renders moves as a compact letter string
func FormatPath(moves []Direction) string {
	buf := make([]byte, len(moves))
	for i, m := range moves {
		buf[i] = m.Short()
	}
	return string(buf)
}
