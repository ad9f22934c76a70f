// Command vhsim replays simulated reaches and walks through every body and
// world redirection technique and logs where each one leaves the user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/body"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/simulation"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
	"github.com/zeusync/vhtoolkit/internal/injector"
	"github.com/zeusync/vhtoolkit/pkg/concurrent"
)

type options struct {
	params    string
	level     string
	dt        float64
	workers   int
	timeout   time.Duration
	strategy  string
	reachTime float64
	walkSpeed float64
	sway      float64
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.params, "params", "", "parameter YAML file, defaults when empty")
	flag.StringVar(&o.level, "log-level", "info", "debug, info, warn or error")
	flag.Float64Var(&o.dt, "dt", simulation.DefaultDeltaTime, "frame duration in seconds")
	flag.IntVar(&o.workers, "workers", 0, "concurrent runs, unlimited when 0")
	flag.DurationVar(&o.timeout, "timeout", time.Minute, "give up after this long")
	flag.StringVar(&o.strategy, "strategy", steering.SteerToCenter.String(), "steering strategy of the walks")
	flag.Float64Var(&o.reachTime, "reach-time", 1.2, "reach duration in seconds")
	flag.Float64Var(&o.walkSpeed, "walk-speed", 1, "walking speed in m/s")
	flag.Float64Var(&o.sway, "sway", 20, "head sway while walking, in degrees")
	flag.Parse()
	return o
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "vhsim:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	strategy, err := steering.ParseID(o.strategy)
	if err != nil {
		return err
	}

	runner, err := injector.InitializeRunner(log.ParseLevel(o.level), injector.ParametersPath(o.params))
	if err != nil {
		return err
	}
	runner.DeltaTime = o.dt
	logger := runner.Log
	if l, ok := logger.(*log.Logger); ok {
		defer func() { _ = l.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reach := simulation.Reach{From: r3.Vec{Y: 1.1}, To: r3.Vec{X: 0.1, Y: 1.1, Z: 0.45}, Duration: o.reachTime, Bow: 0.25}
	virtualTarget := r3.Vec{X: 0.25, Y: 1.1, Z: 0.45}
	reaches, err := concurrent.ParallelMap(ctx, body.IDs(), o.workers, func(ctx context.Context, id body.ID) (simulation.Result, error) {
		return runner.Reach(ctx, id, reach, virtualTarget)
	})
	if err != nil {
		return fmt.Errorf("reach: %w", err)
	}

	walk := simulation.Walk{From: r3.Vec{Y: 1.7}, To: r3.Vec{Y: 1.7, Z: 6}, Speed: o.walkSpeed, Sway: o.sway}
	targets := []r3.Vec{{X: 3, Y: 1.7, Z: 6}, {X: -2, Y: 1.7, Z: 4}}
	walks, err := concurrent.ParallelMap(ctx, world.IDs(), o.workers, func(ctx context.Context, id world.ID) (simulation.Result, error) {
		return runner.Walk(ctx, id, strategy, walk, targets, 0)
	})
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	for _, r := range reaches {
		report(logger, "reach", r)
	}
	for _, r := range walks {
		report(logger, "walk", r)
	}
	return nil
}

func report(logger log.Log, kind string, r simulation.Result) {
	logger.Info(kind,
		log.Technique(r.Technique),
		log.Int("frames", r.Frames),
		log.Int("failures", r.Failures),
		log.Vec("offset", r.Offset),
		log.Float64("yaw", r.Yaw),
	)
}
