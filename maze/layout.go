package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/djefts/pacmanAI/core"
)

// Layout glyphs
const (
	GlyphWall    = '%'
	GlyphStart   = 'P'
	GlyphGoal    = '.'
	GlyphPassage = ' '
)

var (
	ErrEmptyLayout = errors.New("maze: empty layout")
	ErrNoStart     = errors.New("maze: layout has no start marker")
	ErrNoGoal      = errors.New("maze: layout has no goal marker")
)

// Layout is a static wall grid with a single start and goal cell
type Layout struct {
	Name          string
	Width, Height int
	Walls         [][]bool // Walls[y][x]
	Start, Goal   core.Point
}

// NewLayout creates an all-passage layout of the given size
func NewLayout(width, height int) *Layout {
	walls := make([][]bool, height)
	for y := range walls {
		walls[y] = make([]bool, width)
	}
	return &Layout{Width: width, Height: height, Walls: walls}
}

// InBounds reports whether (x, y) lies on the grid
func (l *Layout) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.Width && y < l.Height
}

// IsWall treats off-grid cells as walls
func (l *Layout) IsWall(x, y int) bool {
	if !l.InBounds(x, y) {
		return true
	}
	return l.Walls[y][x]
}

// Passable reports whether p is an open on-grid cell
func (l *Layout) Passable(p core.Point) bool {
	return !l.IsWall(p.X, p.Y)
}

// Parse reads a text layout. Rows may be ragged; short rows are padded with walls.
// Unknown glyphs are treated as passage.
func Parse(r io.Reader) (*Layout, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("maze: read layout: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyLayout
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	l := NewLayout(width, len(rows))
	hasStart, hasGoal := false, false
	for y, row := range rows {
		for x := 0; x < width; x++ {
			if x >= len(row) {
				l.Walls[y][x] = true
				continue
			}
			switch row[x] {
			case GlyphWall:
				l.Walls[y][x] = true
			case GlyphStart:
				l.Start = core.Point{X: x, Y: y}
				hasStart = true
			case GlyphGoal:
				// First goal marker wins
				if !hasGoal {
					l.Goal = core.Point{X: x, Y: y}
					hasGoal = true
				}
			}
		}
	}

	if !hasStart {
		return nil, ErrNoStart
	}
	if !hasGoal {
		return nil, ErrNoGoal
	}
	return l, nil
}

// ParseString is Parse over a string literal
func ParseString(s string) (*Layout, error) {
	return Parse(strings.NewReader(s))
}

// Load reads a layout file, naming it after the file
func Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return l, nil
}

// String renders the layout back into its text form
func (l *Layout) String() string {
	var sb strings.Builder
	sb.Grow((l.Width + 1) * l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := core.Point{X: x, Y: y}
			switch {
			case p == l.Start:
				sb.WriteByte(GlyphStart)
			case p == l.Goal:
				sb.WriteByte(GlyphGoal)
			case l.Walls[y][x]:
				sb.WriteByte(GlyphWall)
			default:
				sb.WriteByte(GlyphPassage)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
