package sketches

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

func init() {
	registry.Register("snake", func() registry.Sketch { return snake{} })
}

// Direction is the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

func (d Direction) opposite(other Direction) bool {
	return (d+2)%4 == other
}

type cell struct {
	X, Y int
}

const minSnakeGrid = 6

// snakeGame is the model of the snake sketch. The arena is the pixel buffer
// divided into square cells with a one-cell wall around the edge.
type snakeGame struct {
	cols, rows int
	stepFrames int
	pace       *config.Pace
	rng        *rand.Rand

	body    []cell // head first
	dir     Direction
	next    Direction // buffered until the next move
	food    cell
	score   int
	ticker  int
	growing bool
	over    bool
	paused  bool
}

func newSnakeGame(cols, rows, stepFrames int, pace *config.Pace, rng *rand.Rand) snakeGame {
	g := snakeGame{
		cols:       cols,
		rows:       rows,
		stepFrames: max(stepFrames, 1),
		pace:       pace,
		rng:        rng,
	}
	g.reset()
	return g
}

// reset restarts the game, keeping the arena and the random source.
func (g *snakeGame) reset() {
	x, y := g.cols/4, g.rows/2
	g.body = []cell{{X: x + 2, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y}}
	g.dir = DirRight
	g.next = DirRight
	g.score = 0
	g.ticker = 0
	g.growing = false
	g.over = false
	g.paused = false
	g.spawnFood()
}

func (g *snakeGame) wall(c cell) bool {
	return c.X <= 0 || c.Y <= 0 || c.X >= g.cols-1 || c.Y >= g.rows-1
}

func (g *snakeGame) occupied(c cell) bool {
	for _, seg := range g.body {
		if seg == c {
			return true
		}
	}
	return false
}

// spawnFood places food on a random free cell, or off the grid when the
// snake fills the arena.
func (g *snakeGame) spawnFood() {
	var free []cell
	for y := 1; y < g.rows-1; y++ {
		for x := 1; x < g.cols-1; x++ {
			c := cell{X: x, Y: y}
			if !g.occupied(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		g.food = cell{X: -1, Y: -1}
		return
	}
	g.food = free[g.rng.Intn(len(free))]
}

// turn buffers a direction change. Reversing onto the neck is ignored.
func (g *snakeGame) turn(d Direction) {
	if g.over || g.paused {
		return
	}
	if !d.opposite(g.dir) {
		g.next = d
	}
}

// step runs once per frame and moves the snake every interval frames. The
// interval shrinks with the score according to the pace.
func (g *snakeGame) step(frame uint32) {
	if g.over || g.paused {
		return
	}
	g.ticker++
	if g.ticker < g.pace.Interval(g.stepFrames, g.score, frame) {
		return
	}
	g.ticker = 0
	g.move()
}

func (g *snakeGame) move() {
	g.dir = g.next
	head := g.body[0]
	switch g.dir {
	case DirUp:
		head.Y--
	case DirDown:
		head.Y++
	case DirLeft:
		head.X--
	case DirRight:
		head.X++
	}

	if g.wall(head) {
		g.over = true
		return
	}
	// The tail moves away this step unless the snake is growing.
	check := len(g.body)
	if !g.growing {
		check--
	}
	for _, seg := range g.body[:check] {
		if seg == head {
			g.over = true
			return
		}
	}

	g.body = append([]cell{head}, g.body...)
	if head == g.food {
		g.score++
		g.growing = true
		g.spawnFood()
	}
	if g.growing {
		g.growing = false
	} else {
		g.body = g.body[:len(g.body)-1]
	}
}

var (
	snakeBackground = core.RGB(0x10, 0x12, 0x18)
	snakeWall       = core.Gray(0x44)
	snakeFood       = core.Red
	snakeOverTint   = core.RGBA{R: 0xE6, G: 0x39, B: 0x46, A: 0x60}
	snakePauseTint  = core.RGBA{A: 0x80}
)

func (g *snakeGame) draw(c *core.Canvas, size int, grad Palette) []byte {
	c.Fill(snakeBackground)
	fill := func(at cell, col core.RGBA) {
		c.FillRect(core.NewRect(at.X*size, at.Y*size, size, size), col)
	}
	for x := range g.cols {
		fill(cell{X: x, Y: 0}, snakeWall)
		fill(cell{X: x, Y: g.rows - 1}, snakeWall)
	}
	for y := range g.rows {
		fill(cell{X: 0, Y: y}, snakeWall)
		fill(cell{X: g.cols - 1, Y: y}, snakeWall)
	}
	if g.food.X >= 0 {
		fill(g.food, snakeFood)
	}
	n := max(len(g.body)-1, 1)
	for i, seg := range g.body {
		fill(seg, grad.RGBA(float64(i)/float64(n)))
	}

	switch {
	case g.over:
		tint(c, snakeOverTint)
	case g.paused:
		tint(c, snakePauseTint)
	}
	return c.Bytes()
}

func tint(c *core.Canvas, col core.RGBA) {
	for y := range c.Height() {
		for x := range c.Width() {
			c.Blend(x, y, col)
		}
	}
}

type snake struct{}

func (snake) ID() string    { return "snake" }
func (snake) Title() string { return "Snake" }

func (snake) Description() string {
	return "Snake on a pixel grid (arrows/wasd: steer, p: pause, r: restart)"
}

func (snake) Config() core.Config {
	return core.NewConfig(320, 240).WithTitle("snake")
}

func (snake) Build(cfg core.Config, p config.Preset, opts ...app.Option) (app.Program, error) {
	grad, err := loadPalette(p, "#80ed99", "#22577a")
	if err != nil {
		return nil, err
	}
	size := max(int(p.Param("cell", 10)), 1)
	cols, rows := cfg.Width/size, cfg.Height/size
	if cols < minSnakeGrid || rows < minSnakeGrid {
		return nil, fmt.Errorf("snake: %dx%d window fits only %dx%d cells of %dpx, need %d",
			cfg.Width, cfg.Height, cols, rows, size, minSnakeGrid)
	}

	game := newSnakeGame(cols, rows, int(p.Param("step_frames", 8)), config.NewPace(p.Pace), newRand(p))
	canvas := core.NewCanvasFor(cfg)

	a, err := app.Stateful(game, cfg,
		func(s *app.State[snakeGame], g snakeGame) snakeGame {
			g.step(s.Frame)
			return g
		},
		func(_ *app.State[snakeGame], g *snakeGame) []byte {
			return g.draw(canvas, size, grad)
		},
		opts...)
	if err != nil {
		return nil, err
	}

	steer := func(d Direction) func(*app.State[snakeGame]) {
		return func(s *app.State[snakeGame]) { s.Model.turn(d) }
	}
	for key, d := range map[core.Key]Direction{
		core.KeyUp:    DirUp,
		core.KeyDown:  DirDown,
		core.KeyLeft:  DirLeft,
		core.KeyRight: DirRight,
		"w":           DirUp,
		"s":           DirDown,
		"a":           DirLeft,
		"d":           DirRight,
	} {
		a.OnKeyPress(key, steer(d))
	}
	a.OnKeyPress("p", func(s *app.State[snakeGame]) {
		if !s.Model.over {
			s.Model.paused = !s.Model.paused
		}
	})
	a.OnKeyPress("r", func(s *app.State[snakeGame]) {
		if s.Model.over {
			s.Model.reset()
		}
	})
	return a, nil
}
