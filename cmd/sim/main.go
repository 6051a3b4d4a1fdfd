package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/zeusync/foresight/internal/core/observability/log"
	"github.com/zeusync/foresight/internal/sim"
)

func main() {
	parallel := flag.Int("parallel", 4, "scenarios run at once (0 = unlimited)")
	level := flag.String("level", "info", "log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scenario.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(log.ParseLevel(*level))
	defer func() { _ = logger.Sync() }()

	scenarios := make([]*sim.Scenario, 0, flag.NArg())
	for _, path := range flag.Args() {
		s, err := sim.LoadFile(path)
		if err != nil {
			logger.Error("Failed to load scenario", log.String("path", path), log.Error(err))
			os.Exit(1)
		}
		scenarios = append(scenarios, s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := sim.RunAll(ctx, scenarios, *parallel, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tTICKS\tCONTACTS\tSURVIVORS\tPAIRS\tDIGEST\tELAPSED")
	for _, r := range reports {
		if r.Scenario == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%016x\t%s\n",
			r.Scenario, r.Ticks, r.Contacts, r.Survivors, r.Stats.PairsTested, r.Digest, r.Elapsed)
	}
	_ = w.Flush()

	if err != nil {
		logger.Error("Run failed", log.Error(err))
		os.Exit(1)
	}
}
