// Command ensemble runs the parameter sweep driver (spec §4.5, §6): it
// reads a grid of (site, sizing) cases from CSV, solves LCOE for each
// case concurrently, and writes both the full raw sweep and the
// Pareto-reduced frontier to CSV. Grounded on the teacher's
// cmd/cli/main.go rank subcommand (reading a case list, bounded
// concurrency, writing a results CSV) and rwcarlsen-cloudlus's sweep
// driver style from the retrieval pack.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"offgrid-lcoe/internal/config"
	"offgrid-lcoe/internal/csvio"
	"offgrid-lcoe/internal/ensemble"
	"offgrid-lcoe/internal/weather"
)

func main() {
	fs := flag.NewFlagSet("ensemble", flag.ExitOnError)

	gridPath := fs.String("grid", "", "path to a CSV grid of sweep cases (required)")
	configPath := fs.String("config", "", "path to a YAML RunConfig supplying shared CAPEX/O&M/financial rates")
	fixturePath := fs.String("pv-fixture", "", "path to a JSON fixture of 8760 normalized PV values (default: synthetic clear-sky provider)")
	concurrency := fs.Int("concurrency", ensemble.DefaultConcurrency, "max concurrent case runs")
	outDir := fs.String("out-dir", ".", "directory to write ensemble_results_raw_*.csv and ensemble_results_pareto_*.csv into")

	_ = fs.Parse(os.Args[1:])

	if *gridPath == "" {
		fail(fmt.Errorf("-grid is required"))
	}

	cases, err := csvio.ReadEnsembleGrid(*gridPath)
	if err != nil {
		fail(err)
	}
	if len(cases) == 0 {
		fail(fmt.Errorf("grid %s contains no cases", *gridPath))
	}

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		fileCfg, err := config.LoadUnchecked(*configPath)
		if err != nil {
			fail(err)
		}
		cfg = *fileCfg
	}

	rates := ensemble.Rates{
		Capex:     cfg.ToCapexRates(),
		OM:        cfg.ToOMRates(),
		Financial: cfg.ToFinancialAssumptions(),
	}

	var provider weather.Provider
	if *fixturePath != "" {
		provider = weather.FixtureProvider{Path: *fixturePath}
	} else {
		provider = weather.NewMemoCache(weather.NewClearSkyProvider())
	}

	fmt.Printf("Running %d cases at concurrency %d...\n", len(cases), *concurrency)

	progress := make(chan ensemble.Progress)
	done := make(chan struct {
		results []ensemble.CaseResult
		err     error
	}, 1)
	go func() {
		results, err := ensemble.Run(cases, provider, rates, *concurrency, progress)
		done <- struct {
			results []ensemble.CaseResult
			err     error
		}{results, err}
	}()

	for p := range progress {
		if p.Err != nil {
			fmt.Printf("[%d/%d] case failed: %v\n", p.Completed, p.Total, p.Err)
			continue
		}
		fmt.Printf("[%d/%d] lat=%.3f lon=%.3f lcoe=$%.2f/MWh renewable=%.1f%%\n",
			p.Completed, p.Total, p.Result.Site.Latitude, p.Result.Site.Longitude, p.Result.LCOE, p.Result.RenewablePct)
	}
	out := <-done
	if out.err != nil {
		fail(out.err)
	}

	pareto := ensemble.ParetoFrontier(out.results)

	ts := timestamp()
	rawPath := fmt.Sprintf("%s/ensemble_results_raw_%s.csv", *outDir, ts)
	paretoPath := fmt.Sprintf("%s/ensemble_results_pareto_%s.csv", *outDir, ts)

	if err := csvio.WriteEnsembleCSV(rawPath, out.results); err != nil {
		fail(err)
	}
	if err := csvio.WriteEnsembleCSV(paretoPath, pareto); err != nil {
		fail(err)
	}

	fmt.Printf("Wrote %d raw results to %s\n", len(out.results), rawPath)
	fmt.Printf("Wrote %d Pareto-frontier results to %s\n", len(pareto), paretoPath)
}

func timestamp() string {
	return time.Now().Format("20060102T150405")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
