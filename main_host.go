//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"rugos/app"
	"rugos/hal"
	"rugos/internal/buildinfo"
	"rugos/internal/config"
	"rugos/internal/tracing"
)

func main() {
	var (
		cfg         hal.HeadlessConfig
		bootPath    string
		traceLog    bool
		trace       bool
		traceOut    string
		showVersion bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Poll rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N polls in headless mode (0 = run forever).")
	flag.BoolVar(&cfg.Virtual, "sim", false, "Headless: run on simulated time instead of the wall clock.")
	flag.StringVar(&bootPath, "config", "", "YAML boot file (schedule, demos).")
	flag.BoolVar(&traceLog, "trace-log", false, "Log every dispatch.")
	flag.BoolVar(&trace, "trace", false, "Export one OpenTelemetry span per dispatch.")
	flag.StringVar(&traceOut, "trace-out", "", "Span output file (default stdout).")
	flag.BoolVar(&showVersion, "version", false, "Print the build version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	boot := config.Default()
	if bootPath != "" {
		var err error
		if boot, err = config.Load(bootPath); err != nil {
			fatal(err)
		}
	}

	appCfg := app.Config{Boot: boot, TraceLog: traceLog}
	if trace {
		tp, shutdown, err := tracing.Init("rugos", buildinfo.Short(), traceOut)
		if err != nil {
			fatal(err)
		}
		defer shutdown(context.Background())
		appCfg.Observer = tracing.NewObserver(tp)
	}

	newApp := func(h hal.HAL) func() error { return app.NewWithConfig(h, appCfg) }

	if cfg.Enabled || cfg.Virtual {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
