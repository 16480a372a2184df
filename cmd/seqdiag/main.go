package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	errs "git.home.luguber.info/inful/seqdiag/internal/errors"
)

var CLI struct {
	Verbose bool `short:"v" env:"SEQDIAG_VERBOSE" help:"Enable verbose logging"`

	Render struct {
		Scenario string `arg:"" help:"Scenario YAML file"`
		Output   string `short:"o" help:"Output file; empty or - writes to stdout"`
	} `cmd:"" help:"Render a scenario file to PlantUML"`

	Watch struct {
		Scenario string `arg:"" help:"Scenario YAML file"`
		Output   string `short:"o" help:"Output file rewritten on every change; empty or - writes to stdout"`
	} `cmd:"" help:"Re-render the scenario whenever it changes"`

	Serve struct {
		Scenario string `arg:"" help:"Scenario YAML file"`
		Addr     string `env:"SEQDIAG_ADDR" help:"Listen address" default:"127.0.0.1:8645"`
		Metrics  bool   `env:"SEQDIAG_METRICS" help:"Expose Prometheus metrics on /metrics"`
	} `cmd:"" help:"Serve a live preview of the rendered diagram"`

	Embed struct {
		Paths []string `arg:"" help:"Markdown files with plantuml-scenario fences"`
		Write bool     `short:"w" help:"Rewrite files in place instead of only reporting"`
	} `cmd:"" help:"Regenerate PlantUML blocks embedded in Markdown"`

	Init struct {
		Path  string `arg:"" optional:"" default:"scenario.yaml" help:"Where to write the starter scenario"`
		Force bool   `help:"Overwrite an existing file"`
	} `cmd:"" help:"Write a starter scenario file"`
}

func main() {
	// Local overrides (log level, listen address) may come from a .env file;
	// a missing file is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("seqdiag"),
		kong.Description("PlantUML sequence diagrams from declarative scenario files"),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := errs.NewCLIErrorAdapter(CLI.Verbose, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch ctx.Command() {
	case "render <scenario>":
		err = runRender(CLI.Render.Scenario, CLI.Render.Output)
	case "watch <scenario>":
		err = runWatch(runCtx, CLI.Watch.Scenario, CLI.Watch.Output)
	case "serve <scenario>":
		err = runServe(runCtx, CLI.Serve.Scenario, CLI.Serve.Addr, CLI.Serve.Metrics)
	case "embed <paths>":
		err = runEmbed(CLI.Embed.Paths, CLI.Embed.Write)
	case "init", "init <path>":
		err = runInit(CLI.Init.Path, CLI.Init.Force)
	}
	adapter.HandleError(err)
}
