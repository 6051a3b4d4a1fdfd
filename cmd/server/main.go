package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
	"github.com/zeusync/foresight/internal/injector"
	"github.com/zeusync/foresight/internal/server"
	"github.com/zeusync/foresight/internal/sim"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	scenarioPath := flag.String("scenario", "", "scenario file to loop")
	level := flag.String("level", "", "log level (defaults to the scenario's log_level)")
	once := flag.Bool("once", false, "run the scenario once instead of looping")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "-scenario is required")
		os.Exit(2)
	}
	scenario, err := sim.LoadFile(*scenarioPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading scenario:", err)
		os.Exit(1)
	}
	if *level == "" {
		*level = scenario.LogLevel
	}
	logger := log.New(log.ParseLevel(*level))
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := server.DefaultServerConfig()
	cfg.ListenAddr = *addr
	stream := injector.InitializeStream(cfg)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	if err = stream.Server.Start(ctx); err != nil {
		logger.Error("Error starting server", log.Error(err))
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() { done <- loop(ctx, scenario, stream.Bus, logger, *once) }()

	select {
	case <-stopCh:
		logger.Info("Shutting down")
	case err = <-done:
		if err != nil {
			logger.Error("Simulation failed", log.Error(err))
		}
	}
	cancel()
	if err = stream.Server.Stop(context.Background()); err != nil {
		logger.Error("Error stopping server", log.Error(err))
	}
}

// loop replays the scenario at its real-time tick rate until ctx ends.
func loop(ctx context.Context, s *sim.Scenario, b bus.EventBus, logger log.Log, once bool) error {
	ticker := time.NewTicker(s.TickInterval())
	defer ticker.Stop()

	for run := 1; ; run++ {
		w, err := sim.NewWorld(ctx, s, sim.WithLogger(logger), sim.WithBus(b))
		if err != nil {
			return err
		}
		for w.Tick() < s.Ticks {
			select {
			case <-ctx.Done():
				_ = w.Close(context.Background())
				return nil
			case <-ticker.C:
			}
			if err = w.Step(); err != nil {
				_ = w.Close(context.Background())
				return err
			}
		}
		logger.Info("Scenario replayed",
			log.Int("run", run),
			log.Uint64("contacts", w.Contacts()),
			log.Uint64("digest", w.Digest()))
		if err = w.Close(context.Background()); err != nil {
			return err
		}
		if once {
			return nil
		}
	}
}
