// Package goworkflows executes the rollout workflow on
// cschleiden/go-workflows. Activities register on the worker under their
// domain names; the workflow body runs under deterministic replay, so
// every side effect goes through an activity.
package goworkflows

import (
	"context"
	"fmt"
	"time"

	"github.com/cschleiden/go-workflows/client"
	"github.com/cschleiden/go-workflows/registry"
	"github.com/cschleiden/go-workflows/worker"
	"github.com/cschleiden/go-workflows/workflow"
	"github.com/google/uuid"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Engine implements [domain.WorkflowEngine] on a go-workflows worker and
// client pair. Timeout bounds result retrieval; zero means 30s.
type Engine struct {
	Worker  *worker.Worker
	Client  *client.Client
	Timeout time.Duration
}

func (e *Engine) awaitTimeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return 30 * time.Second
}

func (e *Engine) RolloutRunner(wf *domain.RolloutWorkflow) (domain.RolloutRunner, error) {
	reg := &registrar{worker: e.Worker, invokers: map[string]invoker{}}
	addActivity(reg, wf.LoadDeployment())
	addActivity(reg, wf.LoadEndpoint())
	addActivity(reg, wf.ComputeServingPlan())
	addActivity(reg, wf.PlanTrafficShift())
	addActivity(reg, wf.ApplyRouting())
	addActivity(reg, wf.AwaitBake())
	addActivity(reg, wf.UpdateDeployment())
	if reg.err != nil {
		return nil, reg.err
	}

	body := func(wfCtx workflow.Context, deploymentID domain.DeploymentID) (domain.RolloutResult, error) {
		return wf.Run(&replayRunner{wfCtx: wfCtx, invokers: reg.invokers}, deploymentID)
	}
	if err := e.Worker.RegisterWorkflow(body, registry.WithName(wf.Name())); err != nil {
		return nil, fmt.Errorf("register workflow %q: %w", wf.Name(), err)
	}

	return &starter{client: e.Client, wfName: wf.Name(), timeout: e.awaitTimeout()}, nil
}

// invoker schedules one named activity from inside the workflow body,
// carrying its concrete types across the erased [domain.DurableRunner]
// boundary.
type invoker func(wfCtx workflow.Context, in any) (any, error)

// registrar accumulates activity registrations; the first failure
// sticks and later calls become no-ops.
type registrar struct {
	worker   *worker.Worker
	invokers map[string]invoker
	err      error
}

func addActivity[In, Out any](reg *registrar, activity domain.Activity[In, Out]) {
	if reg.err != nil {
		return
	}
	name := activity.Name()
	fn := func(ctx context.Context, in In) (Out, error) {
		return activity.Run(ctx, in)
	}
	if err := reg.worker.RegisterActivity(fn, registry.WithName(name)); err != nil {
		reg.err = fmt.Errorf("register activity %q: %w", name, err)
		return
	}
	reg.invokers[name] = func(wfCtx workflow.Context, in any) (any, error) {
		return workflow.ExecuteActivity[Out](
			wfCtx, workflow.DefaultActivityOptions, name, in,
		).Get(wfCtx)
	}
}

// replayRunner adapts the workflow context to [domain.DurableRunner].
// Context returns a background context: under replay, cancellation
// belongs to activity scheduling, not to the body.
type replayRunner struct {
	wfCtx    workflow.Context
	invokers map[string]invoker
}

func (r *replayRunner) ID() string {
	return workflow.WorkflowInstance(r.wfCtx).InstanceID
}

func (r *replayRunner) Context() context.Context { return context.Background() }

func (r *replayRunner) Run(activity domain.Activity[any, any], in any) (any, error) {
	invoke, ok := r.invokers[activity.Name()]
	if !ok {
		return nil, fmt.Errorf("activity %q not registered", activity.Name())
	}
	return invoke(r.wfCtx, in)
}

type starter struct {
	client  *client.Client
	wfName  string
	timeout time.Duration
}

func (s *starter) Run(ctx context.Context, deploymentID domain.DeploymentID) (domain.WorkflowHandle[domain.RolloutResult], error) {
	instance, err := s.client.CreateWorkflowInstance(ctx, client.WorkflowInstanceOptions{
		InstanceID: uuid.NewString(),
	}, s.wfName, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("start rollout instance: %w", err)
	}
	return &instanceHandle{client: s.client, instance: instance, timeout: s.timeout}, nil
}

type instanceHandle struct {
	client   *client.Client
	instance *workflow.Instance
	timeout  time.Duration
}

func (h *instanceHandle) WorkflowID() string { return h.instance.InstanceID }

func (h *instanceHandle) AwaitResult(ctx context.Context) (domain.RolloutResult, error) {
	return client.GetWorkflowResult[domain.RolloutResult](ctx, h.client, h.instance, h.timeout)
}
