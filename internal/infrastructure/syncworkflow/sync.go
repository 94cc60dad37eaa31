// Package syncworkflow runs the rollout workflow inline in the calling
// goroutine. Nothing is persisted and nothing replays: by the time Run
// returns, the rollout has already finished. It backs the application
// tests and suits embedders that do not need durability.
package syncworkflow

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Engine implements [domain.WorkflowEngine] with inline execution.
// Workflow IDs are sequential per engine.
type Engine struct {
	seq atomic.Int64
}

func (e *Engine) RolloutRunner(wf *domain.RolloutWorkflow) (domain.RolloutRunner, error) {
	return &runner{engine: e, wf: wf}, nil
}

type runner struct {
	engine *Engine
	wf     *domain.RolloutWorkflow
}

func (r *runner) Run(ctx context.Context, deploymentID domain.DeploymentID) (domain.WorkflowHandle[domain.RolloutResult], error) {
	id := fmt.Sprintf("sync-%d", r.engine.seq.Add(1))
	result, err := r.wf.Run(&inlineRunner{id: id, ctx: ctx}, deploymentID)
	return &doneHandle{id: id, result: result, err: err}, nil
}

// inlineRunner is the [domain.DurableRunner] handed to the workflow
// body. Activities run directly on the caller's context.
type inlineRunner struct {
	id  string
	ctx context.Context
}

func (r *inlineRunner) ID() string               { return r.id }
func (r *inlineRunner) Context() context.Context { return r.ctx }
func (r *inlineRunner) Run(activity domain.Activity[any, any], in any) (any, error) {
	return activity.Run(r.ctx, in)
}

// doneHandle holds the outcome of an execution that already completed.
type doneHandle struct {
	id     string
	result domain.RolloutResult
	err    error
}

func (h *doneHandle) WorkflowID() string { return h.id }
func (h *doneHandle) AwaitResult(context.Context) (domain.RolloutResult, error) {
	return h.result, h.err
}
