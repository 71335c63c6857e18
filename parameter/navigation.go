package parameter

// Maze Generation
const (
	// MazeDefaultWidth is the generated layout width (cells, rounded down to odd)
	MazeDefaultWidth = 21

	// MazeDefaultHeight is the generated layout height (cells, rounded down to odd)
	MazeDefaultHeight = 11

	// MazeDefaultBraiding adds cycles to generated layouts (0.0-1.0)
	MazeDefaultBraiding = 0.2

	// MazeMinSize is the smallest generated side; below it start and goal share a cell
	MazeMinSize = 5
)
