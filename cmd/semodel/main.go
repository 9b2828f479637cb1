package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/automation"
	"github.com/san-kum/semodel/internal/config"
	"github.com/san-kum/semodel/internal/export"
	"github.com/san-kum/semodel/internal/logging"
	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
	"github.com/san-kum/semodel/internal/storage"
	"github.com/san-kum/semodel/internal/sweep"
	"github.com/san-kum/semodel/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logger     *log.Logger
	frameRate  int
	numRuns    int
	iterations int
	workers    int
	variables  []string
	sweepDB    string
	svgSize    int
	svgMetric  string
	withGraph  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "semodel",
		Short: "stakeholder engagement opinion dynamics",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logLevel, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".semodel", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save its history",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

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

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withGraph, "network", false, "replay the run and include the final network portrayal")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's final network, or one metric history, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "canvas size in pixels")
	exportSVGCmd.Flags().StringVar(&svgMetric, "metric", "", "draw this metric history instead of the network")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 10, "ticks per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNODES\tDEGREE\tSTEPS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", name, p.NumNodes, p.AvgNodeDegree, p.Steps)
			}
			return w.Flush()
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent replicas and plot the mean bands",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addModelFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 10, "number of replicas")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "batch run over a parameter grid and store results in sqlite",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&variables, "vary", nil, "swept parameter, name=v1,v2 or name=min:max:step (repeatable)")
	sweepCmd.Flags().IntVar(&iterations, "iterations", 1, "runs per combination")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "parallel simulations")
	sweepCmd.Flags().StringVar(&sweepDB, "db", "", "sqlite database (default <data>/sweeps.db)")

	batchesCmd := &cobra.Command{
		Use:   "batches [batch_id]",
		Short: "list sweep batches, or the runs of one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listBatches,
	}
	batchesCmd.Flags().StringVar(&sweepDB, "db", "", "sqlite database (default <data>/sweeps.db)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark ticks per second across network sizes",
		Args:  cobra.NoArgs,
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, liveCmd, presetsCmd, ensembleCmd, sweepCmd, batchesCmd, scenarioCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func clockSeed() int64 {
	return time.Now().UnixNano()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.NewSeeded(cfg.Params(), cfg.Seed, sim.WithLogger(logger), sim.WithObserver(newProgress(logger, cfg.Steps)))
	if err != nil {
		return err
	}

	logger.Info("running simulation", "preset", cfg.Name, "nodes", cfg.NumNodes, "steps", cfg.Steps, "seed", cfg.Seed)
	start := time.Now()
	s.Run(cfg.Steps)
	elapsed := time.Since(start)

	runID, err := st.Save(runRecord(cfg, s))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("participants: %d\n", s.NumParticipants())
	fmt.Printf("ticks: %d\n\n", s.Tick())
	fmt.Println(viz.Summary(s))
	fmt.Println("\nmetrics:")
	for _, name := range s.MetricNames() {
		v, _ := s.Latest(name)
		fmt.Printf("  %s: %.4f\n", name, v)
	}

	return nil
}

// progress logs every tenth of a run.
type progress struct {
	logger *log.Logger
	total  int
	every  int
}

func newProgress(l *log.Logger, total int) *progress {
	every := total / 10
	if every < 1 {
		every = 1
	}
	return &progress{logger: l, total: total, every: every}
}

func (p *progress) OnTick(s *sim.Simulation) {
	if p.logger == nil || s.Tick()%p.every != 0 {
		return
	}
	p.logger.Info("progress", "tick", s.Tick(), "of", p.total, "positive", s.Count(agent.Positive), "negative", s.Count(agent.Negative))
}

func runRecord(cfg *config.Config, s *sim.Simulation) storage.Run {
	placed := make(map[string]int, len(sim.Categories))
	for c, id := range s.Stakeholders() {
		placed[string(c)] = id
	}
	return storage.Run{
		Preset:       cfg.Name,
		Seed:         cfg.Seed,
		Steps:        s.Tick(),
		Config:       cfg,
		Stakeholders: placed,
		Ratio:        s.PositiveNegativeRatio(),
		Metrics:      s.MetricNames(),
		Histories:    s.Histories(),
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tNODES\tSTEPS\tPOS\tNEG\tRATIO")

	for _, run := range runs {
		nodes := 0
		if run.Config != nil {
			nodes = run.Config.NumNodes
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f\t%.0f\t%.2f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			nodes,
			run.Steps,
			run.Final[metrics.Positive],
			run.Final[metrics.Negative],
			run.Ratio,
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

	names, histories, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(histories[metrics.Positive]) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(histories[metrics.Positive]))

	fmt.Println(viz.PlotBands(histories, 80, 12))
	fmt.Println()

	var rest []string
	for _, name := range names {
		switch name {
		case metrics.Positive, metrics.Negative, metrics.Neutral:
			continue
		}
		rest = append(rest, name)
	}
	fmt.Print(viz.PlotHistories(rest, histories, 80, 8))

	fmt.Println(viz.SummaryText(meta.Ratio, int(meta.Final[metrics.Positive]), int(meta.Final[metrics.Negative])))
	return nil
}

// replay rebuilds the final state of a stored run from its config and seed.
func replay(meta *storage.RunMetadata) (*sim.Simulation, error) {
	if meta.Config == nil {
		return nil, fmt.Errorf("run %s has no config", meta.ID)
	}
	s, err := sim.NewSeeded(meta.Config.Params(), meta.Seed, sim.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s.Run(meta.Steps)
	return s, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	names, histories, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	data := storage.ExportData{Run: meta, Metrics: names, Histories: histories}
	if withGraph {
		s, err := replay(meta)
		if err != nil {
			return err
		}
		data.Network = viz.PortrayalOf(s)
		data.Participants = s.Participants()
	}

	return storage.ExportJSON(os.Stdout, data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	names, histories, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	return storage.WriteHistoryCSV(csv.NewWriter(os.Stdout), names, histories)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var (
		svg string
		err error
	)
	if svgMetric != "" {
		svg, err = historySVG(st, args[0], svgMetric, svgSize, svgSize/2)
	} else {
		svg, err = networkSVG(st, args[0], svgSize)
	}
	if err != nil {
		return err
	}

	fmt.Println(svg)
	return nil
}

// networkSVG replays a stored run and draws its final network.
func networkSVG(st *storage.Store, runID string, size int) (string, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return "", err
	}

	s, err := replay(meta)
	if err != nil {
		return "", err
	}

	return export.NetworkToSVG(viz.PortrayalOf(s), size), nil
}

func historySVG(st *storage.Store, runID, metric string, width, height int) (string, error) {
	_, histories, err := st.LoadHistory(runID)
	if err != nil {
		return "", err
	}

	data, ok := histories[metric]
	if !ok {
		return "", fmt.Errorf("run %s has no metric %q", runID, metric)
	}
	if len(data) < 2 {
		return "", fmt.Errorf("metric %q needs at least two samples, got %d", metric, len(data))
	}

	return export.HistoryToSVG(data, width, height, metricColor(metric)), nil
}

func metricColor(name string) string {
	switch name {
	case metrics.Positive:
		return viz.PositiveColor
	case metrics.Negative:
		return viz.NegativeColor
	case metrics.Neutral:
		return viz.NeutralColor
	default:
		return "#444466"
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; keep engine logs to warnings.
	s, err := sim.NewSeeded(cfg.Params(), cfg.Seed, sim.WithLogger(logging.New("warn", os.Stderr)))
	if err != nil {
		return err
	}

	title := cfg.Name
	if title == "" {
		title = "semodel"
	}

	p := tea.NewProgram(viz.NewLiveModel(s, title, frameRate, cfg.Steps), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(viz.LiveModel); ok {
		fmt.Printf("stopped at tick %d\n", m.Simulation().Tick())
		fmt.Println(viz.Summary(m.Simulation()))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if numRuns < 1 {
		return fmt.Errorf("--runs must be positive, got %d", numRuns)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running ensemble", "runs", numRuns, "steps", cfg.Steps, "seed_start", cfg.Seed)
	start := time.Now()
	runs, err := sim.NewEnsemble(cfg.Params(), numRuns, cfg.Seed).Run(ctx, cfg.Steps)
	if err != nil {
		return err
	}
	logger.Info("ensemble finished", "elapsed", time.Since(start))

	means := make(map[string][]float64)
	for _, name := range runs[0].MetricNames() {
		means[name] = sim.MeanHistory(runs, name)
	}
	fmt.Println(viz.PlotBands(means, 80, 12))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPOS\tNEG\tNEU\tRATIO")
	for i, s := range runs {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f\n",
			cfg.Seed+int64(i),
			s.Count(agent.Positive),
			s.Count(agent.Negative),
			s.Count(agent.Neutral),
			s.PositiveNegativeRatio(),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pos := means[metrics.Positive]
	neg := means[metrics.Negative]
	last := len(pos) - 1
	fmt.Printf("\nmean positive: %.2f\nmean negative: %.2f\nratio of means: %.2f\n", pos[last], neg[last], metrics.Ratio(pos[last], neg[last]))
	return nil
}

func openSweepDB() (*storage.SweepDB, error) {
	path := sweepDB
	if path == "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dataDir, "sweeps.db")
	}
	return storage.OpenSweepDB(path)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(variables) == 0 {
		return fmt.Errorf("at least one --vary is required (parameters: %v)", sweep.ParamNames())
	}

	vars := make([]sweep.Variable, 0, len(variables))
	for _, raw := range variables {
		v, err := parseVariable(raw)
		if err != nil {
			return err
		}
		vars = append(vars, v)
	}

	db, err := openSweepDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	runner := sweep.NewRunner(cfg.Params(), vars,
		sweep.WithIterations(iterations),
		sweep.WithMaxSteps(cfg.Steps),
		sweep.WithSeedStart(cfg.Seed),
		sweep.WithWorkers(workers),
		sweep.WithLogger(logger),
	)

	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	batchID := uuid.NewString()
	rows := make([]storage.SweepRow, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("sweep run failed", "index", r.Index, "params", r.Params, "err", r.Err)
			continue
		}
		row, err := storage.NewSweepRow(batchID, r.Index, r.Iteration, r.Seed, cfg.Steps, r.Params, r.Final, r.Ratio)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := db.SaveResults(rows); err != nil {
		return err
	}

	fmt.Printf("batch id: %s\n", batchID)
	fmt.Printf("runs: %d (failed %d)\n\n", len(results), failed)
	return printSweepRows(rows, vars)
}

func printSweepRows(rows []storage.SweepRow, vars []sweep.Variable) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "RUN\tITER\tSEED"
	for _, v := range vars {
		header += "\t" + v.Name
	}
	fmt.Fprintln(w, header+"\tPOS\tNEG\tRATIO")

	for _, row := range rows {
		params, err := row.DecodeParams()
		if err != nil {
			return err
		}
		final, err := row.DecodeFinal()
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%d\t%d\t%d", row.RunIndex, row.Iteration, row.Seed)
		for _, v := range vars {
			line += fmt.Sprintf("\t%.3g", params[v.Name])
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.2f\n", line, final[metrics.Positive], final[metrics.Negative], row.Ratio)
	}
	return w.Flush()
}

func listBatches(cmd *cobra.Command, args []string) error {
	db, err := openSweepDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		rows, err := db.Results(args[0])
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("no runs in batch %s", args[0])
		}
		params, err := rows[0].DecodeParams()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		vars := make([]sweep.Variable, len(names))
		for i, name := range names {
			vars[i] = sweep.Variable{Name: name}
		}
		return printSweepRows(rows, vars)
	}

	batches, err := db.Batches()
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println("no sweep batches found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BATCH\tRUNS\tCREATED")
	for _, b := range batches {
		fmt.Fprintf(w, "%s\t%d\t%s\n", b.BatchID, b.Runs, time.Unix(b.CreatedAt, 0).Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tPOS\tNEG\tRATIO")
	for _, r := range results {
		rec := runRecord(r.Config, r.Sim)
		rec.Preset = r.Name
		runID, err := st.Save(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\n", r.Name, runID, r.Positive, r.Negative, r.Ratio)
	}
	return w.Flush()
}

func benchModel(cmd *cobra.Command, args []string) error {
	sizes := []int{100, 1000, 5000}
	degrees := []float64{2, 3, 6}
	const ticks = 50

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODES\tDEGREE\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range sizes {
		for _, d := range degrees {
			p := sim.DefaultParams()
			p.NumNodes = n
			p.AvgNodeDegree = d

			s, err := sim.NewSeeded(p, 42)
			if err != nil {
				return err
			}

			start := time.Now()
			s.Run(ticks)
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.1f\t%d\t%v\t%.0f\n", n, d, ticks, elapsed, float64(ticks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
