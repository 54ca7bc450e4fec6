package worker

import (
	"context"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/YuminosukeSato/custsat/pipeline"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/workflow"
)

// Dial connects to the Temporal frontend described by cfg.
func Dial(cfg pipeline.TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    NewTemporalLogger(log.GetLoggerWithName("temporal")),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "dial temporal at %s", cfg.HostPort)
	}
	return c, nil
}

// Run polls cfg.TaskQueue until ctx is done.
func Run(ctx context.Context, cfg pipeline.TemporalConfig) error {
	c, err := Dial(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	w := sdkworker.New(c, taskQueue(cfg), sdkworker.Options{})
	RegisterAll(w)

	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()

	log.GetLoggerWithName("worker").Info("Worker started",
		"task_queue", taskQueue(cfg),
		"host_port", cfg.HostPort,
	)
	if err := w.Run(stop); err != nil {
		return errors.Wrap(err, "worker stopped")
	}
	return nil
}

// Submit starts TrainingWorkflow for req and waits for its result.
func Submit(ctx context.Context, c client.Client, cfg pipeline.TemporalConfig, req workflow.TrainingRequest) (*workflow.TrainingResult, error) {
	opts := client.StartWorkflowOptions{
		ID:        "custsat-training-" + uuid.NewString(),
		TaskQueue: taskQueue(cfg),
	}
	run, err := c.ExecuteWorkflow(ctx, opts, workflow.TrainingWorkflow, req)
	if err != nil {
		return nil, errors.Wrap(err, "start training workflow")
	}

	log.GetLoggerWithName("worker").Info("Training workflow started",
		log.RunIDKey, run.GetRunID(),
		"workflow_id", run.GetID(),
	)

	var res workflow.TrainingResult
	if err := run.Get(ctx, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func taskQueue(cfg pipeline.TemporalConfig) string {
	if cfg.TaskQueue == "" {
		return pipeline.DefaultTaskQueue
	}
	return cfg.TaskQueue
}
