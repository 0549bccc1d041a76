package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/forces"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/scene"
	"github.com/san-kum/physim/internal/vec"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 300
	trailLength     = 80
	tickRate        = time.Second / 60
)

type TickMsg time.Time

// run is the mutable simulation behind a Model. Models are copied by value on
// every update, so everything that collision callbacks touch lives here.
type run struct {
	scene      *scene.Scene
	bounds     *Wireframe
	view       Viewport
	trails     [][]vec.Vector3
	energy     []float64
	frames     int
	collisions int
	started    time.Time
}

// Model is a bubbletea program that drives a scene in real time. Every tick
// calls Engine.Step, which measures elapsed wall time itself.
type Model struct {
	cfg        *config.Config
	log        *zap.Logger
	run        *run
	canvas     *Canvas
	camera     *Camera
	paused     bool
	showTrails bool
	showHelp   bool
	lastTick   time.Time
	fps        float64
	recorder   *metrics.Recorder
}

type LiveOption func(*Model)

// WithRecorder exports every frame and contact to r.
func WithRecorder(r *metrics.Recorder) LiveOption {
	return func(m *Model) { m.recorder = r }
}

func NewModel(cfg *config.Config, log *zap.Logger, opts ...LiveOption) (Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		cfg:        cfg,
		log:        log,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		showTrails: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reset rebuilds the scene from its config.
func (m *Model) reset() error {
	s, err := scene.Build(m.cfg, m.log)
	if err != nil {
		return err
	}
	r := &run{
		scene:   s,
		trails:  make([][]vec.Vector3, len(s.Names)),
		energy:  make([]float64, 0, historyCapacity),
		started: time.Now(),
	}
	rec := m.recorder
	s.OnCollision(func(d constraints.CollisionData) {
		r.collisions++
		if rec != nil {
			rec.Record(d)
		}
	})

	var extent []vec.Vector3
	for _, e := range s.Entities() {
		p := e.Point()
		pad := vec.New(p.Radius, p.Radius, 0)
		extent = append(extent, p.Position.Add(pad), p.Position.Sub(pad))
	}
	for _, a := range s.Agents {
		if w, ok := a.Agent.(*constraints.Walls); ok {
			lo, hi := wallsBox(w.Options())
			r.bounds = BoxWireframe(lo, hi)
			extent = append(extent, lo, hi)
		}
		if anchor := agentAnchor(a.Agent); anchor != nil {
			extent = append(extent, *anchor)
		}
	}
	w, h := m.canvas.Dots()
	pad := 0.25
	if r.bounds != nil {
		pad = 0.02
	}
	r.view = FitViewport(extent, w, h, pad)

	m.run = r
	m.camera = NewCamera(r.view.Min.Add(r.view.Max).Mult(0.5))
	m.paused = false
	return nil
}

// wallsBox returns the corners of the box a Walls constraint encloses.
func wallsBox(opts constraints.WallsOptions) (lo, hi vec.Vector3) {
	for i := 0; i < 3; i++ {
		l := -opts.Size[i] * opts.Origin[i]
		u := opts.Size[i] * (1 - opts.Origin[i])
		switch i {
		case 0:
			lo.X, hi.X = l, u
		case 1:
			lo.Y, hi.Y = l, u
		default:
			lo.Z, hi.Z = l, u
		}
	}
	return lo, hi
}

func agentAnchor(agent any) *vec.Vector3 {
	switch a := agent.(type) {
	case *constraints.Distance:
		return a.Options().Anchor
	case *constraints.Snap:
		return a.Options().Anchor
	case *forces.Spring:
		return a.Options().Anchor
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.togglePause()
		case "r":
			if err := m.reset(); err != nil {
				m.log.Warn("reset failed", zap.Error(err))
			}
		case "c":
			m.showTrails = !m.showTrails
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "0":
			m.camera.Reset()
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if d := now.Sub(m.lastTick).Seconds(); d > 0 {
				m.fps = 0.9*m.fps + 0.1/d
			}
		}
		m.lastTick = now
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// togglePause sleeps the engine; waking it resets the frame clock so the
// pause is not integrated as one long frame.
func (m *Model) togglePause() {
	eng := m.run.scene.Engine
	m.paused = !m.paused
	if m.paused {
		eng.Sleep()
	} else {
		eng.Wake()
	}
}

func (m *Model) step() {
	r := m.run
	eng := r.scene.Engine
	if eng.IsSleeping() {
		return
	}
	eng.Step()
	r.frames++

	energy := eng.Energy()
	if m.recorder != nil {
		m.recorder.Observe(metrics.Sample{
			Step:     r.frames,
			Time:     float64(time.Since(r.started).Milliseconds()),
			Energy:   energy,
			Entities: r.scene.Entities(),
		})
	}
	r.energy = append(r.energy, energy)
	if len(r.energy) > historyCapacity {
		r.energy = r.energy[1:]
	}
	for i, e := range r.scene.Entities() {
		r.trails[i] = append(r.trails[i], e.Point().Position)
		if len(r.trails[i]) > trailLength {
			r.trails[i] = r.trails[i][1:]
		}
	}
}

func (m *Model) draw() {
	r := m.run
	m.canvas.Clear()
	project := func(p vec.Vector3) (int, int) { return r.view.Map(m.camera.Apply(p)) }

	if r.bounds != nil {
		Render(m.canvas, r.bounds, m.camera, r.view)
	}
	for _, a := range r.scene.Agents {
		anchor := agentAnchor(a.Agent)
		if anchor == nil {
			continue
		}
		ax, ay := project(*anchor)
		m.canvas.DrawCircle(ax, ay, 1)
		targets, err := r.scene.Engine.Targets(a.ID)
		if err != nil {
			continue
		}
		for _, t := range targets {
			x, y := project(t.Point().Position)
			m.canvas.DrawLine(ax, ay, x, y)
		}
	}
	if m.showTrails {
		for _, trail := range r.trails {
			for _, p := range trail {
				x, y := project(p)
				m.canvas.Set(x, y)
			}
		}
	}
	scale := r.view.Scale() * m.camera.Zoom
	for _, e := range r.scene.Entities() {
		p := e.Point()
		x, y := project(p.Position)
		m.canvas.DrawCircle(x, y, int(p.Radius*scale))
	}
}

func (m Model) status() string {
	switch {
	case m.paused:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Bold(true).Render("PAUSED")
	case m.run.scene.Engine.IsSleeping():
		return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Bold(true).Render("ASLEEP")
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	r := m.run
	canvasView := lipgloss.NewStyle().Padding(1, 2).Foreground(CurrentTheme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.cfg.Scene), CurrentTheme.Primary, CurrentTheme.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	energy := 0.0
	if len(r.energy) > 0 {
		energy = r.energy[len(r.energy)-1]
	}
	rows := [][2]string{
		{"Frames", fmt.Sprintf("%d", r.frames)},
		{"Energy", fmt.Sprintf("%.4g", energy)},
		{"Bodies", fmt.Sprintf("%d", len(r.scene.Names))},
		{"Agents", fmt.Sprintf("%d", len(r.scene.Agents))},
		{"Contacts", fmt.Sprintf("%d", r.collisions)},
		{"FPS", fmt.Sprintf("%.0f", m.fps)},
	}
	for _, row := range rows {
		s.WriteString(labelStyle().Render(row[0]) + valueStyle().Render(row[1]) + "\n")
	}
	if len(r.energy) > 1 {
		chart := asciigraph.Plot(r.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString("\n" + Sparkline(r.energy, 30) + "\n")
	s.WriteString(hintStyle().Render("\nSP:pause R:reset Q:quit\nC:trails T:theme ?:help"))

	stats := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Muted).
		Padding(1, 2).
		Width(44).
		Render(s.String())
	layout := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)
	if m.showHelp {
		return panelStyle().Render(helpText) + "\n" + layout
	}
	return layout
}

const helpText = `Space  pause / resume
R      rebuild the scene
C      toggle trails
T      cycle themes
X Y    rotate the view (shift reverses)
+ -    zoom, 0 resets the view
?      toggle this help
Q      quit`

// RunLive runs a scene in the terminal until the user quits.
func RunLive(cfg *config.Config, log *zap.Logger, opts ...LiveOption) error {
	m, err := NewModel(cfg, log, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
