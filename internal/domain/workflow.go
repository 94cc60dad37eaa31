package domain

import "context"

// Activity is one named step of a durable workflow. Activities must be
// idempotent (engines deliver at-least-once) and their inputs and
// outputs must survive a JSON round trip, since durable engines persist
// them between invocations.
type Activity[In any, Out any] interface {
	Name() string
	Run(ctx context.Context, in In) (Out, error)
}

// NewActivity builds an [Activity] from a stable name and a function.
// The name is the engine registration ID; changing it orphans in-flight
// executions.
func NewActivity[In, Out any](name string, fn func(context.Context, In) (Out, error)) Activity[In, Out] {
	return &namedActivity[In, Out]{name: name, fn: fn}
}

type namedActivity[In, Out any] struct {
	name string
	fn   func(context.Context, In) (Out, error)
}

func (a *namedActivity[In, Out]) Name() string { return a.name }
func (a *namedActivity[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	return a.fn(ctx, in)
}

// DurableRunner is what a workflow body executes against. Run dispatches
// an activity through the engine so its result is recorded; Context
// carries cancellation for the non-activity parts of the body. Under a
// durable engine that context is the deterministic replay context, under
// the synchronous engine it is the caller's.
type DurableRunner interface {
	ID() string
	Context() context.Context

	// Run erases the activity's types for engine dispatch. Workflow
	// bodies call [RunActivity] instead.
	Run(activity Activity[any, any], in any) (any, error)
}

// RunActivity dispatches an activity through the runner, restoring the
// activity's input and output types.
func RunActivity[In any, Out any](runner DurableRunner, activity Activity[In, Out], in In) (Out, error) {
	out, err := runner.Run(&anyActivity[In, Out]{inner: activity}, in)
	if err != nil {
		var zero Out
		return zero, err
	}
	return out.(Out), nil
}

// anyActivity adapts a typed [Activity] to the erased form
// [DurableRunner.Run] accepts.
type anyActivity[In any, Out any] struct{ inner Activity[In, Out] }

func (a *anyActivity[In, Out]) Name() string { return a.inner.Name() }
func (a *anyActivity[In, Out]) Run(ctx context.Context, in any) (any, error) {
	return a.inner.Run(ctx, in.(In))
}

// WorkflowHandle refers to a started workflow execution and yields its
// result once the execution completes.
type WorkflowHandle[Out any] interface {
	WorkflowID() string
	AwaitResult(ctx context.Context) (Out, error)
}

// RolloutRunner starts the rollout workflow for a deployment.
type RolloutRunner interface {
	Run(ctx context.Context, deploymentID DeploymentID) (WorkflowHandle[RolloutResult], error)
}

// WorkflowEngine binds a [RolloutWorkflow] to an execution backend.
// Each infrastructure engine registers the workflow's activities under
// their names and returns a runner that starts executions on it.
type WorkflowEngine interface {
	RolloutRunner(wf *RolloutWorkflow) (RolloutRunner, error)
}
