package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physim/internal/analysis"
	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/experiment"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/storage"
	"github.com/san-kum/physim/internal/viz"
)

var (
	dataDir     string
	verbose     bool
	theme       string
	configFile  string
	frames      int
	noSave      bool
	metricsAddr string
	axis        string
	format      string
	outFile     string

	plotSize  size
	traceSize size
	svgSize   size
)

// size holds one command's --width/--height pair. Commands never share one,
// since registering a flag writes its default into the bound variable.
type size struct{ w, h int }

func (s *size) bind(cmd *cobra.Command, w, h int, what string) {
	cmd.Flags().IntVar(&s.w, "width", w, what+" width")
	cmd.Flags().IntVar(&s.h, "height", h, what+" height")
}

var log = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "physim",
		Short: "constraint based physics engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(theme)
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(log)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	runCmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default from scene)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	batchCmd := &cobra.Command{
		Use:   "batch [scene|file]...",
		Short: "run several scenes concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&axis, "axis", "y", "coordinate to plot (x, y or z)")
	plotSize.bind(plotCmd, 80, 12, "plot")

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "draw body paths through the xy plane",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}
	traceSize.bind(traceCmd, 60, 20, "canvas")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the oscillation period of each body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or svg")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgSize.bind(exportCmd, 800, 600, "svg")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in real time in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	liveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	sceneCmd := &cobra.Command{
		Use:   "scene [preset]",
		Short: "print a built-in scene as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpScene,
	}
	sceneCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, traceCmd, analyzeCmd, exportCmd, liveCmd, presetsCmd, sceneCmd)
	return rootCmd
}

// loadScene resolves a scene from --config or a preset name.
func loadScene(args []string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if len(args) == 0 {
		return nil, errors.New("scene name or --config required")
	}
	return resolveScene(args[0])
}

// resolveScene treats arg as a preset name, falling back to a yaml path.
func resolveScene(arg string) (*config.Config, error) {
	if cfg := config.GetPreset(arg); cfg != nil {
		return cfg, nil
	}
	if ext := filepath.Ext(arg); ext == ".yaml" || ext == ".yml" {
		return config.Load(arg)
	}
	return nil, errors.Errorf("unknown scene %q (presets: %s)", arg, strings.Join(config.ListPresets(), ", "))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	if frames > 0 {
		cfg.Frames = frames
	}

	exp, err := experiment.New(cfg, log)
	if err != nil {
		return err
	}
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		exp.AddMetric(metrics.NewRecorder(reg, cfg.Scene))
		stop := serveMetrics(metricsAddr, reg)
		defer stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s for %d frames...\n", cfg.Scene, cfg.Frames)
	start := time.Now()
	result, err := exp.Run(ctx, cfg.Frames)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("stopped early: %v\n", err)
	}

	fields := [][2]string{
		{"Frames", fmt.Sprintf("%d", result.StepsTaken)},
		{"Bodies", strings.Join(result.Names, ", ")},
		{"Sim time", fmt.Sprintf("%.0f ms", result.Times[len(result.Times)-1])},
		{"Wall time", elapsed.Round(time.Millisecond).String()},
		{"Contacts", fmt.Sprintf("%d", result.Collisions)},
		{"Drift", fmt.Sprintf("%.4g", result.EnergyDrift)},
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fields = append([][2]string{{"Run", runID}}, fields...)
	}

	fmt.Println(viz.Summary(strings.ToUpper(cfg.Scene), fields, result.Metrics))
	if plot := viz.EnergyPlot(result.Energies, 70, 8); plot != "" {
		fmt.Println()
		fmt.Println(plot)
	}
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfgs := make([]*config.Config, len(args))
	for i, arg := range args {
		cfg, err := resolveScene(arg)
		if err != nil {
			return err
		}
		cfgs[i] = cfg
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := experiment.RunBatch(ctx, cfgs, log)
	if err != nil {
		return err
	}
	fmt.Printf("%d scenes in %v\n", len(results), time.Since(start).Round(time.Millisecond))

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		id := "-"
		if !noSave {
			if id, err = st.Save(cfgs[i], r); err != nil {
				return err
			}
		}
		rows = append(rows, []string{
			id,
			r.Scene,
			fmt.Sprintf("%d", r.StepsTaken),
			fmt.Sprintf("%.4g", r.Metrics["energy"]),
			fmt.Sprintf("%.4g", r.EnergyDrift),
			fmt.Sprintf("%d", r.Collisions),
		})
	}
	fmt.Println(viz.Table([]string{"RUN", "SCENE", "FRAMES", "ENERGY", "DRIFT", "CONTACTS"}, rows))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.Frames),
			fmt.Sprintf("%.4g ms", run.Timestep),
			fmt.Sprintf("%d", len(run.Bodies)),
			fmt.Sprintf("%d", run.Collisions),
		})
	}
	fmt.Println(viz.Table([]string{"ID", "SCENE", "TIME", "FRAMES", "DT", "BODIES", "CONTACTS"}, rows))
	return nil
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "run %s", runID)
	}
	traj, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj.Times) == 0 {
		return nil, nil, errors.Errorf("run %s has no data", runID)
	}
	return meta, traj, nil
}

func parseAxis(s string) (int, error) {
	switch strings.ToLower(s) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, errors.Errorf("unknown axis %q", s)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	idx, err := parseAxis(axis)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(traj.Times))

	series := make([][]float64, 0, len(traj.Names))
	for _, name := range traj.Names {
		s, _ := traj.Series(name, idx)
		series = append(series, s)
	}
	caption := fmt.Sprintf("%s vs time (%s)", viz.AxisName(idx), strings.Join(traj.Names, ", "))
	fmt.Println(viz.SeriesPlot(caption, series, plotSize.w, plotSize.h))
	fmt.Println()
	fmt.Println(viz.EnergyPlot(traj.Energies, plotSize.w, plotSize.h/2))
	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)\n", meta.ID, strings.Join(traj.Names, ", "))
	fmt.Print(viz.TrajectoryCanvas(traj.Positions, traceSize.w, traceSize.h).String())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	dt := meta.Timestep
	if len(traj.Times) > 1 {
		dt = traj.Times[1] - traj.Times[0]
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	rows := make([][]string, 0, len(traj.Names))
	for _, name := range traj.Names {
		row := []string{name}
		for a := 0; a < 3; a++ {
			s, _ := traj.Series(name, a)
			period := analysis.DominantPeriod(s, dt)
			if period == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.0f ms", period))
		}
		rows = append(rows, row)
	}
	fmt.Println(viz.Table([]string{"BODY", "PERIOD X", "PERIOD Y", "PERIOD Z"}, rows))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return storage.ExportJSON(w, meta, traj)
	case "svg":
		return viz.TrajectorySVG(w, traj.Names, traj.Positions, svgSize.w, svgSize.h)
	}
	return errors.Errorf("unknown format %q", format)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	var opts []viz.LiveOption
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, viz.WithRecorder(metrics.NewRecorder(reg, cfg.Scene)))
		stop := serveMetrics(metricsAddr, reg)
		defer stop()
	}
	return viz.RunLive(cfg, log, opts...)
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		types := make([]string, 0, len(cfg.Agents))
		for _, a := range cfg.Agents {
			types = append(types, a.Type)
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", len(cfg.Bodies)), strings.Join(types, " "), fmt.Sprintf("%d", cfg.Frames)})
	}
	fmt.Println(viz.Table([]string{"SCENE", "BODIES", "AGENTS", "FRAMES"}, rows))
	return nil
}

func dumpScene(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return errors.Errorf("unknown preset %q", args[0])
	}
	if outFile != "" {
		return config.Save(outFile, cfg)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
