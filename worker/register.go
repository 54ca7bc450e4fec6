// Package worker hosts the training workflow on a Temporal worker.
package worker

import (
	"github.com/YuminosukeSato/custsat/workflow"
)

// Registry is the registration surface shared by sdk workers and the
// Temporal test environment.
type Registry interface {
	RegisterWorkflow(w interface{})
	RegisterActivity(a interface{})
}

// RegisterAll registers the training workflow and its activities. Call it
// once before the worker starts.
func RegisterAll(r Registry) {
	r.RegisterWorkflow(workflow.TrainingWorkflow)
	r.RegisterActivity(workflow.NewActivities())
}
