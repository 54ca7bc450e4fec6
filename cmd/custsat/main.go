// Command custsat trains and evaluates the customer satisfaction model.
//
//	custsat run --data olist_customers_dataset.csv
//	custsat worker --host localhost:7233
//	custsat submit --data /shared/olist_customers_dataset.csv
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/youta-t/flarc"

	"github.com/YuminosukeSato/custsat/pipeline"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/worker"
	"github.com/YuminosukeSato/custsat/workflow"
)

type RunFlags struct {
	Config   string `flag:"config" help:"Path to a YAML pipeline configuration."`
	Data     string `flag:"data" help:"Path to the order reviews CSV. Overrides data_path."`
	Model    string `flag:"model" help:"Model to train. Overrides model.name."`
	Plot     string `flag:"plot" help:"Write a predicted-vs-actual plot here (.png, .svg, ...)."`
	Weights  string `flag:"weights" help:"Write the fitted weights as JSON here. Overrides weights_path."`
	LogLevel string `flag:"log-level" help:"debug, info, warn or error. Overrides log_level."`
}

type WorkerFlags struct {
	Config    string `flag:"config" help:"Path to a YAML pipeline configuration."`
	Host      string `flag:"host" help:"Temporal frontend host:port. Overrides temporal.host_port."`
	Namespace string `flag:"namespace" help:"Temporal namespace. Overrides temporal.namespace."`
	TaskQueue string `flag:"task-queue" help:"Task queue to poll. Overrides temporal.task_queue."`
	LogLevel  string `flag:"log-level" help:"debug, info, warn or error. Overrides log_level."`
}

type SubmitFlags struct {
	Config    string `flag:"config" help:"Path to a YAML pipeline configuration."`
	Data      string `flag:"data" help:"Path to the order reviews CSV as seen by the worker."`
	Model     string `flag:"model" help:"Model to train. Overrides model.name."`
	Host      string `flag:"host" help:"Temporal frontend host:port. Overrides temporal.host_port."`
	TaskQueue string `flag:"task-queue" help:"Task queue of the worker. Overrides temporal.task_queue."`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd, err := newCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(flarc.Run(ctx, cmd))
}

func newCommand() (flarc.Command, error) {
	run, err := flarc.NewCommand(
		"Train and evaluate the model in this process.",
		RunFlags{},
		flarc.Args{},
		runTask,
	)
	if err != nil {
		return nil, err
	}

	wrk, err := flarc.NewCommand(
		"Serve the training workflow on a Temporal task queue.",
		WorkerFlags{},
		flarc.Args{},
		workerTask,
	)
	if err != nil {
		return nil, err
	}

	submit, err := flarc.NewCommand(
		"Start the training workflow on Temporal and wait for its metrics.",
		SubmitFlags{},
		flarc.Args{},
		submitTask,
	)
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Customer satisfaction training pipeline.",
		struct{}{},
		flarc.WithSubcommand("run", run),
		flarc.WithSubcommand("worker", wrk),
		flarc.WithSubcommand("submit", submit),
	)
}

func loadConfig(path string) (pipeline.Config, error) {
	if path == "" {
		return pipeline.DefaultConfig(), nil
	}
	return pipeline.LoadConfig(path)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setupLogging points both slog's default logger and the package provider at
// w. Pipeline runs report their own failures per step; the other commands
// report theirs through slog.
func setupLogging(level string, w io.Writer) error {
	return log.SetupLoggerWithWriter(level, w)
}

func runTask(ctx context.Context, c flarc.Commandline[RunFlags], _ []any) error {
	flags := c.Flags()
	cfg, err := loadConfig(flags.Config)
	if err != nil {
		return err
	}
	override(&cfg.DataPath, flags.Data)
	override(&cfg.Model.ModelName, flags.Model)
	override(&cfg.PlotPath, flags.Plot)
	override(&cfg.WeightsPath, flags.Weights)
	override(&cfg.LogLevel, flags.LogLevel)

	if err := setupLogging(cfg.LogLevel, c.Stderr()); err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	printMetrics(c.Stdout(), res.RunID, res.Metrics)
	return nil
}

func workerTask(ctx context.Context, c flarc.Commandline[WorkerFlags], _ []any) error {
	flags := c.Flags()
	cfg, err := loadConfig(flags.Config)
	if err != nil {
		return err
	}
	override(&cfg.Temporal.HostPort, flags.Host)
	override(&cfg.Temporal.Namespace, flags.Namespace)
	override(&cfg.Temporal.TaskQueue, flags.TaskQueue)
	override(&cfg.LogLevel, flags.LogLevel)

	if err := setupLogging(cfg.LogLevel, c.Stderr()); err != nil {
		return err
	}
	if err := worker.Run(ctx, cfg.Temporal); err != nil {
		slog.Error("Worker stopped", log.ErrAttr(err), "task_queue", cfg.Temporal.TaskQueue)
		return err
	}
	return nil
}

func submitTask(ctx context.Context, c flarc.Commandline[SubmitFlags], _ []any) error {
	flags := c.Flags()
	cfg, err := loadConfig(flags.Config)
	if err != nil {
		return err
	}
	override(&cfg.DataPath, flags.Data)
	override(&cfg.Model.ModelName, flags.Model)
	override(&cfg.Temporal.HostPort, flags.Host)
	override(&cfg.Temporal.TaskQueue, flags.TaskQueue)

	if err := setupLogging(cfg.LogLevel, c.Stderr()); err != nil {
		return err
	}

	res, err := submit(ctx, cfg)
	if err != nil {
		slog.Error("Submit failed", log.ErrAttr(err), "task_queue", cfg.Temporal.TaskQueue)
		return err
	}
	printMetrics(c.Stdout(), "", res.Metrics)
	return nil
}

func submit(ctx context.Context, cfg pipeline.Config) (*workflow.TrainingResult, error) {
	req := workflow.RequestFromConfig(cfg)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client, err := worker.Dial(cfg.Temporal)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return worker.Submit(ctx, client, cfg.Temporal, req)
}

func printMetrics(w io.Writer, runID string, m pipeline.Metrics) {
	if runID != "" {
		fmt.Fprintf(w, "run_id: %s\n", runID)
	}
	fmt.Fprintf(w, "r2: %.6f\n", m.R2)
	fmt.Fprintf(w, "rmse: %.6f\n", m.RMSE)
	fmt.Fprintf(w, "mse: %.6f\n", m.MSE)
	fmt.Fprintf(w, "mae: %.6f\n", m.MAE)
}
