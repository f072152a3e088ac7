// Package main runs the SMC-CPHD filter against a simulated multi-target
// scenario: it generates ground truth and cluttered measurement scans,
// filters them, scores the estimates with OSPA, and optionally renders
// plots, an HTML report, and a sqlite run record.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/duhaocui/rfs-filters/internal/config"
	"github.com/duhaocui/rfs-filters/internal/cphd"
	"github.com/duhaocui/rfs-filters/internal/cphdmodel"
	"github.com/duhaocui/rfs-filters/internal/kmeans"
	"github.com/duhaocui/rfs-filters/internal/metrics"
	"github.com/duhaocui/rfs-filters/internal/monitoring"
	"github.com/duhaocui/rfs-filters/internal/report"
	"github.com/duhaocui/rfs-filters/internal/runstore"
	"github.com/duhaocui/rfs-filters/internal/scenario"
)

type simFlags struct {
	seed       uint64
	steps      int
	clutter    float64
	truePD     float64
	maxPart    int
	perTarget  int
	maxCard    int
	configPath string
	outputDir  string
	dbPath     string
	quiet      bool
}

func parseFlags() simFlags {
	var f simFlags
	flag.Uint64Var(&f.seed, "seed", 1, "RNG seed for scenario and filter")
	flag.IntVar(&f.steps, "steps", 100, "number of time steps to simulate")
	flag.Float64Var(&f.clutter, "clutter", 5, "expected clutter points per scan")
	flag.Float64Var(&f.truePD, "pd", 0.9, "true detection probability of the simulated targets")
	flag.IntVar(&f.maxPart, "jmax", 0, "particle cap (0 = default)")
	flag.IntVar(&f.perTarget, "jtarget", 0, "particles per expected target (0 = default)")
	flag.IntVar(&f.maxCard, "nmax", 0, "max representable cardinality (0 = default)")
	flag.StringVar(&f.configPath, "config", "", "optional JSON tuning file")
	flag.StringVar(&f.outputDir, "out", "", "directory for PNG plots and the HTML report (empty = no rendering)")
	flag.StringVar(&f.dbPath, "db", "", "sqlite run store path (empty = no persistence)")
	flag.BoolVar(&f.quiet, "quiet", false, "suppress per-step diagnostic output")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if f.quiet {
		monitoring.SetLogger(nil)
	}

	filterCfg := cphd.DefaultConfig()
	params := cphdmodel.DefaultParams()
	ospaParams := metrics.DefaultOSPAParams()

	if f.configPath != "" {
		tuning, err := config.Load(f.configPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
		filterCfg = tuning.ApplyFilter(filterCfg)
		params = tuning.ApplyModel(params)
		ospaParams = metrics.OSPAParams{Cutoff: tuning.GetOSPACutoff(), Order: tuning.GetOSPAOrder()}
	}
	if f.maxPart > 0 {
		filterCfg.MaxParticles = f.maxPart
	}
	if f.perTarget > 0 {
		filterCfg.ParticlesPerTarget = f.perTarget
	}
	if f.maxCard > 0 {
		filterCfg.MaxCardinality = f.maxCard
	}
	filterCfg.Verbose = !f.quiet
	params.ClutterRate = f.clutter

	model, err := cphdmodel.New(params)
	if err != nil {
		log.Fatalf("build model: %v", err)
	}

	// Two independent streams: one for the scenario, one for the filter, so
	// changing filter internals never perturbs the simulated data.
	scenarioRNG := rand.New(rand.NewPCG(f.seed, 0x5eed))
	filterRNG := rand.New(rand.NewPCG(f.seed, 0xf117))

	targets := scenario.CrossingTargets(f.steps, f.truePD)
	truth, err := scenario.Expand(targets, f.steps, params.Dt)
	if err != nil {
		log.Fatalf("expand scenario: %v", err)
	}
	scans := scenario.Simulate(targets, truth, params, scenarioRNG)

	filter, err := cphd.New(model, kmeans.New(0), filterCfg, filterRNG)
	if err != nil {
		log.Fatalf("build filter: %v", err)
	}

	var store *runstore.Store
	var runID string
	if f.dbPath != "" {
		store, err = runstore.Open(f.dbPath)
		if err != nil {
			log.Fatalf("open run store: %v", err)
		}
		defer store.Close()

		cfgJSON, err := json.Marshal(filterCfg)
		if err != nil {
			log.Fatalf("marshal config: %v", err)
		}
		runID, err = store.CreateRun(f.seed, string(cfgJSON))
		if err != nil {
			log.Fatalf("create run: %v", err)
		}
	}

	series := report.RunSeries{TruePD: f.truePD}
	var ospaSum float64
	for k, scan := range scans {
		est, err := filter.Step(scan)
		if err != nil {
			log.Fatalf("filter: %v", err)
		}

		dist, err := metrics.OSPA(est.States, truth.States[k], ospaParams)
		if err != nil {
			log.Fatalf("ospa at step %d: %v", k, err)
		}
		ospaSum += dist

		series.EstimatedCounts = append(series.EstimatedCounts, est.Count)
		series.TrueCounts = append(series.TrueCounts, len(truth.States[k]))
		series.MeanPD = append(series.MeanPD, est.MeanDetectionProb)
		series.OSPA = append(series.OSPA, dist)
		for _, s := range est.States {
			series.EstimatedXY = append(series.EstimatedXY, [2]float64{s[0], s[2]})
		}
		for _, s := range truth.States[k] {
			series.TruthXY = append(series.TruthXY, [2]float64{s[0], s[2]})
		}

		if store != nil {
			diag := filter.Diagnostics()
			rec := runstore.StepRecord{
				Step:                k,
				MeasurementCount:    len(scan),
				EstimatedCount:      est.Count,
				TrueCount:           len(truth.States[k]),
				ExpectedCardinality: est.ExpectedCardinality,
				MeanPD:              est.MeanDetectionProb,
				NeffBefore:          diag.NeffBeforeResample,
				NeffAfter:           diag.NeffAfterResample,
				OSPA:                dist,
			}
			// Store failures must never abort the recursion.
			if err := store.RecordStep(runID, rec); err != nil {
				monitoring.Logf("run store: %v", err)
			}
		}
	}

	fmt.Printf("steps=%d mean_ospa=%.2f final_est_n=%d final_mean_pd=%.3f\n",
		f.steps, ospaSum/float64(f.steps),
		series.EstimatedCounts[f.steps-1], series.MeanPD[f.steps-1])

	if f.outputDir != "" {
		if err := os.MkdirAll(f.outputDir, 0755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}
		if err := report.WritePlots(f.outputDir, series); err != nil {
			log.Fatalf("write plots: %v", err)
		}
		htmlPath := filepath.Join(f.outputDir, "report.html")
		if err := report.WriteHTML(htmlPath, series); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Printf("report written to %s\n", f.outputDir)
	}
}
