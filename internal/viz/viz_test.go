package viz

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/vec"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Fatal("expected dots to be lit")
	}
	if got := c.Grid[0][0]; got != brailleBlank|0x1 {
		t.Errorf("cell 0 = %U", got)
	}
	c.Unset(0, 0)
	if c.IsSet(0, 0) || c.Grid[0][0] != brailleBlank {
		t.Error("unset left the dot lit")
	}
	c.Set(-1, 0)
	c.Set(4, 0)
	if strings.Count(c.String(), "\n") != 1 {
		t.Error("expected one row")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawLine(0, 0, 19, 7)
	if !c.IsSet(0, 0) || !c.IsSet(19, 7) {
		t.Error("line endpoints not drawn")
	}
}

func TestViewportFit(t *testing.T) {
	vp := FitViewport([]vec.Vector3{vec.New(-10, -5, 0), vec.New(10, 5, 0)}, 101, 51, 0)

	x, y := vp.Map(vec.New(0, 0, 0))
	if x != 50 || y != 25 {
		t.Errorf("center mapped to (%d, %d)", x, y)
	}
	lx, _ := vp.Map(vec.New(-10, 0, 0))
	rx, _ := vp.Map(vec.New(10, 0, 0))
	if lx < 0 || rx > 100 || rx-lx != 100 {
		t.Errorf("x extent mapped to [%d, %d]", lx, rx)
	}
	_, ty := vp.Map(vec.New(0, -5, 0))
	if ty >= y {
		t.Error("negative y should map above the center")
	}
}

func TestBoxWireframe(t *testing.T) {
	flat := BoxWireframe(vec.New(0, 0, 0), vec.New(1, 1, 0))
	if len(flat.Edges) != 4 {
		t.Errorf("flat box has %d edges", len(flat.Edges))
	}
	cube := BoxWireframe(vec.New(0, 0, 0), vec.New(1, 1, 1))
	if len(cube.Edges) != 12 {
		t.Errorf("cube has %d edges", len(cube.Edges))
	}
}

func TestCameraIdentity(t *testing.T) {
	cam := NewCamera(vec.New(5, 5, 0))
	p := vec.New(1, 2, 3)
	if !cam.Apply(p).Equals(p, 1e-12) {
		t.Error("head-on camera should not move points")
	}
	cam.ZoomIn()
	cam.Reset()
	if cam.Zoom != 1 {
		t.Error("reset did not restore zoom")
	}
}

func TestWallsBox(t *testing.T) {
	opts := constraints.DefaultWallsOptions()
	opts.Size = [3]float64{400, 300, 0}
	lo, hi := wallsBox(opts)
	if !lo.Equals(vec.New(-200, -150, 0), 1e-12) || !hi.Equals(vec.New(200, 150, 0), 1e-12) {
		t.Errorf("box = %v..%v", lo, hi)
	}
}

func TestTrajectorySVG(t *testing.T) {
	frames := [][]vec.Vector3{
		{vec.New(0, 0, 0), vec.New(5, 5, 0)},
		{vec.New(1, 1, 0), vec.New(4, 6, 0)},
	}
	var buf bytes.Buffer
	if err := TrajectorySVG(&buf, []string{"a", "<b>"}, frames, 200, 100); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "<path") != 2 {
		t.Error("expected one path per body")
	}
	if !strings.Contains(out, "&lt;b&gt;") {
		t.Error("body names should be escaped")
	}
}

func TestCanvasSVG(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(1, 2)
	var buf bytes.Buffer
	if err := CanvasSVG(&buf, c, 4); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "<circle") != 1 {
		t.Error("expected a single dot")
	}
}

func TestPlots(t *testing.T) {
	if EnergyPlot([]float64{1}, 20, 4) != "" {
		t.Error("a single sample should not plot")
	}
	if !strings.Contains(EnergyPlot([]float64{1, 2, 3}, 20, 4), "energy") {
		t.Error("missing caption")
	}
	if SeriesPlot("x", [][]float64{{1, 2}, {2, 1}}, 20, 4) == "" {
		t.Error("expected a chart")
	}
	c := TrajectoryCanvas([][]vec.Vector3{{vec.New(0, 0, 0)}, {vec.New(10, 10, 0)}}, 10, 5)
	if strings.Trim(c.String(), string(rune(brailleBlank))+"\n") == "" {
		t.Error("trajectory canvas is empty")
	}
}

func TestLiveModel(t *testing.T) {
	m, err := NewModel(config.GetPreset("bounce"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.run.bounds == nil {
		t.Fatal("walls should be outlined")
	}

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.run.frames != 1 || len(m.run.energy) != 1 {
		t.Errorf("frames = %d, samples = %d", m.run.frames, len(m.run.energy))
	}

	m.togglePause()
	if !m.run.scene.Engine.IsSleeping() {
		t.Error("pausing should sleep the engine")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.run.frames != 1 {
		t.Error("paused model stepped")
	}
	m.togglePause()
	if m.run.scene.Engine.IsSleeping() {
		t.Error("resuming should wake the engine")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)
	if m.showTrails {
		t.Error("c should hide trails")
	}
	if !strings.Contains(m.View(), "Frames") {
		t.Error("view should list frame stats")
	}
}

func TestLiveModelRecorder(t *testing.T) {
	rec := metrics.NewRecorder(prometheus.NewRegistry(), "pendulum")
	m, err := NewModel(config.GetPreset("pendulum"), nil, WithRecorder(rec))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if rec.Value() != 3 {
		t.Errorf("recorder saw %v frames, want 3", rec.Value())
	}
	if err := m.reset(); err != nil {
		t.Fatal(err)
	}
	if m.run.frames != 0 || m.recorder != rec {
		t.Error("reset should restart the run and keep the recorder")
	}
}
