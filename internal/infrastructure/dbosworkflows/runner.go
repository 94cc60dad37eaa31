// Package dbosworkflows executes the rollout workflow on DBOS Transact.
// Each activity runs as a checkpointed step under the activity's name,
// so a restarted process resumes a rollout from the last completed step.
package dbosworkflows

import (
	"context"
	"fmt"

	"github.com/dbos-inc/dbos-transact-golang/dbos"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Engine implements [domain.WorkflowEngine] on a DBOS context.
//
// Call [dbos.Launch] after creating runners and before starting
// rollouts; registration is only valid before launch.
type Engine struct {
	DBOSCtx dbos.DBOSContext
}

func (e *Engine) RolloutRunner(wf *domain.RolloutWorkflow) (domain.RolloutRunner, error) {
	steps := map[string]stepFunc{}
	addStep(steps, wf.LoadDeployment())
	addStep(steps, wf.LoadEndpoint())
	addStep(steps, wf.ComputeServingPlan())
	addStep(steps, wf.PlanTrafficShift())
	addStep(steps, wf.ApplyRouting())
	addStep(steps, wf.AwaitBake())
	addStep(steps, wf.UpdateDeployment())

	body := func(ctx dbos.DBOSContext, deploymentID domain.DeploymentID) (domain.RolloutResult, error) {
		return wf.Run(&stepRunner{ctx: ctx, steps: steps}, deploymentID)
	}
	dbos.RegisterWorkflow(e.DBOSCtx, body, dbos.WithWorkflowName(wf.Name()))

	return &starter{dbosCtx: e.DBOSCtx, body: body}, nil
}

// stepFunc runs one activity as a DBOS step. The concrete output type is
// captured in [addStep] so replayed step results deserialize correctly.
type stepFunc func(ctx dbos.DBOSContext, in any) (any, error)

func addStep[In, Out any](steps map[string]stepFunc, activity domain.Activity[In, Out]) {
	name := activity.Name()
	steps[name] = func(ctx dbos.DBOSContext, in any) (any, error) {
		return dbos.RunAsStep(ctx, func(stepCtx context.Context) (Out, error) {
			return activity.Run(stepCtx, in.(In))
		}, dbos.WithStepName(name))
	}
}

// stepRunner adapts the DBOS workflow context to [domain.DurableRunner].
type stepRunner struct {
	ctx   dbos.DBOSContext
	steps map[string]stepFunc
}

func (r *stepRunner) ID() string {
	id, _ := dbos.GetWorkflowID(r.ctx)
	return id
}

func (r *stepRunner) Context() context.Context { return r.ctx }

func (r *stepRunner) Run(activity domain.Activity[any, any], in any) (any, error) {
	step, ok := r.steps[activity.Name()]
	if !ok {
		return nil, fmt.Errorf("activity %q not registered", activity.Name())
	}
	return step(r.ctx, in)
}

type starter struct {
	dbosCtx dbos.DBOSContext
	body    dbos.Workflow[domain.DeploymentID, domain.RolloutResult]
}

func (s *starter) Run(ctx context.Context, deploymentID domain.DeploymentID) (domain.WorkflowHandle[domain.RolloutResult], error) {
	handle, err := dbos.RunWorkflow(s.dbosCtx, s.body, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("start rollout workflow: %w", err)
	}
	return &resultHandle{handle: handle}, nil
}

type resultHandle struct {
	handle dbos.WorkflowHandle[domain.RolloutResult]
}

func (h *resultHandle) WorkflowID() string { return h.handle.GetWorkflowID() }

func (h *resultHandle) AwaitResult(context.Context) (domain.RolloutResult, error) {
	return h.handle.GetResult()
}
