package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pingsim/internal/analysis"
	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/automation"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/export"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/optim"
	"github.com/san-kum/pingsim/internal/render"
	"github.com/san-kum/pingsim/internal/storage"
	"github.com/san-kum/pingsim/internal/tui"
)

// extraCommands are registered by files built with optional tags.
var extraCommands []*cobra.Command

// bounceThreshold is the minimum rise and fall, in meters, of a counted apex.
const bounceThreshold = 0.05

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	// play
	spheres int
	noAudio bool
	sound   string
	theme   string
	logFile string
	watch   bool
	// run
	scenarioName string
	duration     float64
	runs         int
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	noSave       bool
	quiet        bool
	snapshot     string
	// tune
	tuneParams []string
	metric     string
	maximize   bool
	// plot / analyze / export
	plotColumn    string
	analyzeColumn string
	exportColumn  string
	format        string
	outFile       string
	writePath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pingsim",
		Short: "spheres, a paddle and a floor",
		RunE:  playGame,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pingsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play in the terminal",
		Args:  cobra.NoArgs,
		RunE:  playGame,
	}
	addPlayFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&spheres, "spheres", config.DefaultConfig().Spawn.Initial, "spheres dropped at startup")
		cmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable impact sounds")
		cmd.Flags().StringVar(&sound, "sound", "", "impact sound (wav or mp3)")
		cmd.Flags().StringVar(&theme, "theme", "retro", "color theme")
		cmd.Flags().StringVar(&logFile, "log", "pingsim.log", "log file")
		cmd.Flags().BoolVar(&watch, "watch", false, "reload --config on change")
	}
	addPlayFlags(rootCmd)
	addPlayFlags(playCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted scenario headlessly",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&scenarioName, "scenario", "drop", "drop, rally or a scenario file (yaml)")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size")
	runCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep")
	runCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start")
	runCmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end")
	runCmd.Flags().IntVar(&sweepSteps, "steps", 5, "sweep steps")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "skip the chart")
	runCmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final scene as svg")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search config parameters against a run metric",
		Args:  cobra.NoArgs,
		RunE:  tuneParameters,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=min:max:steps or name=v1,v2 (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "energy_retained", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	tuneCmd.Flags().StringVar(&scenarioName, "scenario", "drop", "drop, rally or a scenario file (yaml)")
	tuneCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "trace column (default: max_y and score)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "max_y", "trace column")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv or svg")
	exportCmd.Flags().StringVar(&exportColumn, "column", "max_y", "trace column (svg)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writePath != "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				if err := config.Save(writePath, cfg); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", writePath)
				return nil
			}
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-8s gravity %6.2f  restitution %.2f  friction %.2f  spheres %d\n",
					p, cfg.World.Gravity, cfg.Material.Restitution, cfg.Material.Friction, cfg.Spawn.Initial)
			}
			return nil
		},
	}
	presetsCmd.Flags().StringVar(&writePath, "write", "", "write the selected config to a yaml file")

	rootCmd.AddCommand(playCmd, runCmd, tuneCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)
	rootCmd.AddCommand(extraCommands...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves --config, then --preset, then the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Paddle.Model = cfg.Paddle.Model
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("spheres") {
		cfg.Spawn.Initial = spheres
	}
	if flags.Changed("no-audio") {
		cfg.Audio.Enabled = !noAudio
	}
	if flags.Changed("sound") {
		cfg.Audio.Sound = sound
	}
	return cfg, cfg.Validate()
}

func playGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	f, err := tea.LogToFile(logFile, "pingsim")
	if err != nil {
		return err
	}
	defer f.Close()
	logger := log.Default()

	var sink audio.Sink = audio.Discard{}
	if cfg.Audio.Enabled {
		s, closeAudio := audio.Open(cfg.Audio.Sound, logger)
		defer closeAudio()
		sink = s
	}

	var watcher *config.Watcher
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		watcher, err = config.Watch(configFile)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	sb := &tui.Scoreboard{}
	g, err := game.Load(cmd.Context(), game.Options{
		Config:  cfg,
		Sink:    sink,
		Display: sb,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return tui.Run(tui.NewModel(g, sb, tui.Options{
		Theme:   theme,
		Watcher: watcher,
		Logger:  logger,
	}))
}

func loadScenario(name string) (*automation.Scenario, error) {
	switch name {
	case "drop":
		return automation.DefaultScenario(duration), nil
	case "rally":
		return automation.RallyScenario(duration), nil
	}
	sc, err := automation.LoadScenario(name)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScenario(scenarioName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	if preset != "" {
		sc.Preset = preset
	}

	switch {
	case sweepParam != "":
		return runSweep(ctx, sc, cfg)
	case runs > 1:
		return runEnsemble(ctx, sc, cfg)
	}

	opts := automation.Options{Config: cfg}
	var vp *render.Viewport
	if snapshot != "" {
		vp = render.NewViewport(80, 24, render.NewCamera())
		opts.Snapshot = vp
	}
	report, err := automation.RunScenario(ctx, sc, opts)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", report.Scenario)
	fmt.Printf("seed: %d\n", report.Seed)
	fmt.Printf("frames: %d (%.4fs step)\n", report.Frames, report.FixedStep)
	fmt.Printf("score: %d\n", report.Score)
	fmt.Printf("spheres: %d\n", report.Spheres)
	fmt.Printf("sounds: %d played, %d quiet (peak impact %.2f m/s)\n",
		report.SoundsPlayed, report.SoundsIgnored, report.PeakImpact)
	printMetrics(report.Metrics)

	heights, _ := report.Column("max_y")
	times, _ := report.Column("time")
	if b := analysis.Bounces(times, heights, bounceThreshold); len(b.Apexes) > 1 {
		fmt.Printf("bounces: %d apexes, %.3fs apart, effective restitution %.3f\n",
			len(b.Apexes), b.MeanPeriod, b.Restitution)
	}

	if !quiet && len(report.Trace) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("highest sphere"),
		))
	}

	if vp != nil {
		svg := export.CanvasToSVG(vp.Canvas(), 4)
		if err := os.WriteFile(snapshot, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", snapshot)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(report)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func tuneParameters(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScenario(scenarioName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}

	names, ranges, err := optim.ParseRanges(tuneParams)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := automation.Sweepable[name]; !ok {
			return fmt.Errorf("cannot tune %q", name)
		}
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	grid.Maximize = maximize

	fmt.Printf("tuning %s over %d runs\n\n", metric, grid.Size())
	best, trials, err := grid.Search(ctx, automation.Objective(sc, cfg), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, t := range trials {
		for _, name := range names {
			fmt.Fprintf(w, "%.3f\t", t.Params[name])
		}
		fmt.Fprintf(w, "%.4f\n", t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, name := range names {
		fmt.Printf("  %-16s %.4f\n", name, best.Params[name])
	}
	fmt.Printf("  %-16s %.4f\n", metric, best.Value)
	return nil
}

func runSweep(ctx context.Context, sc *automation.Scenario, cfg *config.Config) error {
	results, err := automation.RunSweep(ctx, sc, automation.ParameterSweep{
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	}, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSCORE\tMAX_Y\tRETAINED\tSLEEPING\tSTABILITY\n", strings.ToUpper(sweepParam))
	retained := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.0f\t%.3f\t%.3f\t%.2f\t%.2f\n",
			r.Value,
			r.Metrics["score"],
			r.Metrics["max_height"],
			r.Metrics["energy_retained"],
			r.Metrics["sleeping"],
			r.Metrics["stability"],
		)
		retained = append(retained, r.Metrics["energy_retained"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !quiet && len(retained) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(retained,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("energy retained vs "+sweepParam),
		))
	}
	return nil
}

func runEnsemble(ctx context.Context, sc *automation.Scenario, cfg *config.Config) error {
	start := sc.Seed
	if start == 0 {
		start = cfg.Seed
	}
	results, mean, err := automation.RunEnsemble(ctx, sc, runs, start, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	fmt.Printf("runs: %d\n\n", len(results))
	fmt.Println("mean:")
	printMetrics(mean)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.4f\n", name, m[name])
	}
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tSEED\tSCORE\tSPHERES")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Seed,
			run.Score,
			run.Spheres,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace["time"]) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(trace["time"]))

	columns := []string{"max_y", "score"}
	if plotColumn != "" {
		columns = []string{plotColumn}
	}
	for _, c := range columns {
		data, ok := trace[c]
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", c, automation.TraceColumns)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	data, ok := trace[analyzeColumn]
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", analyzeColumn, automation.TraceColumns)
	}
	if len(data) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	ps, _ := analysis.PowerSpectrum(data)
	plotData := ps[:min(max(len(ps)/4, 2), len(ps))]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+analyzeColumn+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.FixedStep)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	b := analysis.Bounces(trace["time"], data, bounceThreshold)
	fmt.Printf("apexes: %d\n", len(b.Apexes))
	for i, idx := range b.Apexes {
		fmt.Printf("  t=%6.3fs  y=%.3f\n", trace["time"][idx], b.Heights[i])
	}
	if len(b.Apexes) > 1 {
		fmt.Printf("mean bounce period: %.3f s\n", b.MeanPeriod)
		fmt.Printf("effective restitution: %.3f (rest height %.3f)\n", b.Restitution, b.Rest)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return st.ExportJSON(out, runID)
	case "csv":
		return st.CopyTrace(out, runID)
	case "svg":
		trace, err := st.LoadTrace(runID)
		if err != nil {
			return err
		}
		ys, ok := trace[exportColumn]
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", exportColumn, automation.TraceColumns)
		}
		chart := export.Chart{Width: 800, Height: 300, Stroke: "#00ff9f", Caption: exportColumn}
		_, err = fmt.Fprint(out, chart.Series(trace["time"], ys))
		return err
	}
	return fmt.Errorf("unknown format: %s (json, csv or svg)", format)
}
