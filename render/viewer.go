package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/maze"
)

// Glyphs used by the viewer
const (
	GlyphWall  = '█'
	GlyphFloor = ' '
	GlyphStart = 'S'
	GlyphGoal  = '•'
	GlyphAgent = 'C'
	GlyphTrail = '·'
	GlyphBump  = 'x'

	GlyphExplored = '░'
)

var (
	styleWall  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStart = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleGoal  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAgent = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTrail = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleBump  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText  = tcell.StyleDefault.Foreground(tcell.ColorSilver)

	styleExplored = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Playback summarises one animation
type Playback struct {
	Steps int        // Moves executed
	Bumps int        // Moves refused by a wall
	Final core.Point // Where the agent stopped
	Quit  bool       // Interrupted by the user
}

// Viewer draws a layout on a tcell screen and animates an agent along a path
type Viewer struct {
	screen tcell.Screen
	layout *maze.Layout
	delay  time.Duration
	title  string

	explored []core.Point

	eventsOnce sync.Once
	events     chan tcell.Event
	stopOnce   sync.Once
	stop       chan struct{}
	pumpDone   chan struct{}
}

// ViewerOption customises a Viewer
type ViewerOption func(*Viewer)

// WithDelay sets the time between animation frames
func WithDelay(d time.Duration) ViewerOption {
	return func(v *Viewer) { v.delay = d }
}

// WithTitle sets the status line prefix
func WithTitle(s string) ViewerOption {
	return func(v *Viewer) { v.title = s }
}

// WithExplored shades cells the search expanded
func WithExplored(cells []core.Point) ViewerOption {
	return func(v *Viewer) { v.explored = cells }
}

// NewViewer binds an initialised screen to a layout
func NewViewer(screen tcell.Screen, l *maze.Layout, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		screen: screen,
		layout: l,
		delay:  120 * time.Millisecond,
		title:  l.Name,

		stop:     make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.delay <= 0 {
		v.delay = time.Millisecond
	}
	return v
}

// Draw renders the grid, the trail, the agent and a status line
func (v *Viewer) Draw(agent core.Point, trail []core.Point, status string) {
	s := v.screen
	s.Clear()

	l := v.layout
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if l.Walls[y][x] {
				s.SetContent(x, y, GlyphWall, nil, styleWall)
			} else {
				s.SetContent(x, y, GlyphFloor, nil, tcell.StyleDefault)
			}
		}
	}

	for _, p := range v.explored {
		if l.Passable(p) {
			s.SetContent(p.X, p.Y, GlyphExplored, nil, styleExplored)
		}
	}

	s.SetContent(l.Start.X, l.Start.Y, GlyphStart, nil, styleStart)
	s.SetContent(l.Goal.X, l.Goal.Y, GlyphGoal, nil, styleGoal)

	for _, p := range trail {
		if p != l.Start && p != l.Goal {
			s.SetContent(p.X, p.Y, GlyphTrail, nil, styleTrail)
		}
	}
	s.SetContent(agent.X, agent.Y, GlyphAgent, nil, styleAgent)

	v.drawText(0, l.Height+1, status)
	s.Show()
}

func (v *Viewer) drawText(x, y int, text string) {
	w, h := v.screen.Size()
	if y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		v.screen.SetContent(x, y, r, nil, styleText)
		x++
	}
}

// Animate walks path from the layout start, one move per frame.
// Esc, q or Ctrl-C stop early; space pauses.
func (v *Viewer) Animate(ctx context.Context, path []core.Direction) (Playback, error) {
	events := v.pollEvents()
	ticker := time.NewTicker(v.delay)
	defer ticker.Stop()

	pos := v.layout.Start
	trail := []core.Point{pos}
	pb := Playback{Final: pos}
	paused := false

	v.Draw(pos, trail, v.status(pb, len(path), paused))

	for i := 0; i < len(path); {
		select {
		case <-ctx.Done():
			return pb, ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					pb.Quit = true
					return pb, nil
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
					paused = !paused
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
			v.Draw(pos, trail, v.status(pb, len(path), paused))

		case <-ticker.C:
			if paused {
				continue
			}
			next := pos.Add(path[i])
			i++
			if path[i-1] == core.Stop {
				continue
			}
			if !v.layout.Passable(next) {
				pb.Bumps++
				v.screen.SetContent(next.X, next.Y, GlyphBump, nil, styleBump)
				v.screen.Show()
				continue
			}
			pos = next
			trail = append(trail, pos)
			pb.Steps++
			pb.Final = pos
			v.Draw(pos, trail, v.status(pb, len(path), paused))
		}
	}
	return pb, nil
}

// WaitKey blocks until a key is pressed or ctx is done
func (v *Viewer) WaitKey(ctx context.Context) error {
	events := v.pollEvents()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if _, ok := ev.(*tcell.EventKey); ok {
				return nil
			}
		}
	}
}

func (v *Viewer) status(pb Playback, total int, paused bool) string {
	state := ""
	if paused {
		state = " [paused]"
	}
	if pb.Final == v.layout.Goal {
		state += " goal reached"
	}
	return fmt.Sprintf("%s  step %d/%d  bumps %d%s", v.title, pb.Steps, total, pb.Bumps, state)
}

// Close stops the event pump. The pump exits once its pending PollEvent
// returns, or right away when the screen is finalised.
func (v *Viewer) Close() {
	v.stopOnce.Do(func() { close(v.stop) })
}

// pollEvents starts the single event pump; it exits on Close or when the screen is finalised
func (v *Viewer) pollEvents() <-chan tcell.Event {
	v.eventsOnce.Do(func() {
		v.events = make(chan tcell.Event, 16)
		core.Go(func() {
			defer close(v.pumpDone)
			for {
				ev := v.screen.PollEvent()
				if ev == nil {
					return
				}
				select {
				case <-v.stop:
					return
				default:
				}
				select {
				case v.events <- ev:
				case <-v.stop:
					return
				}
			}
		})
	})
	return v.events
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
