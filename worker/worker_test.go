package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/testsuite"

	"github.com/YuminosukeSato/custsat/pipeline"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/workflow"
)

type recordingRegistry struct {
	workflows  []interface{}
	activities []interface{}
}

func (r *recordingRegistry) RegisterWorkflow(w interface{}) { r.workflows = append(r.workflows, w) }
func (r *recordingRegistry) RegisterActivity(a interface{}) { r.activities = append(r.activities, a) }

func TestRegisterAll(t *testing.T) {
	reg := &recordingRegistry{}
	RegisterAll(reg)

	assert.Len(t, reg.workflows, 1)
	require.Len(t, reg.activities, 1)
	assert.IsType(t, &workflow.Activities{}, reg.activities[0])
}

func TestRegisterAllOnTestEnvironment(t *testing.T) {
	provider, _ := log.NewTestLoggerProvider(log.LevelError)
	log.SetProvider(provider)
	t.Cleanup(func() { log.SetProvider(log.NewZerologProvider(log.LevelInfo)) })

	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	RegisterAll(env)

	// An empty request is rejected before any activity is scheduled.
	env.ExecuteWorkflow(workflow.TrainingWorkflow, workflow.TrainingRequest{})
	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}

func TestTemporalLogger(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	tl := NewTemporalLogger(logger)
	tl.Info("worker polling", "task_queue", "q1")

	wl, ok := tl.(tlog.WithLogger)
	require.True(t, ok)
	wl.With("namespace", "default").Warn("poll retry")

	assert.True(t, logger.ContainsMessage("worker polling"))
	assert.True(t, logger.ContainsField("task_queue", "q1"))
	assert.True(t, logger.ContainsMessage("poll retry"))
	assert.True(t, logger.ContainsField("namespace", "default"))
}

func TestTaskQueueDefault(t *testing.T) {
	assert.Equal(t, pipeline.DefaultTaskQueue, taskQueue(pipeline.TemporalConfig{}))
	assert.Equal(t, "q", taskQueue(pipeline.TemporalConfig{TaskQueue: "q"}))
}
