package domain

import (
	"context"
	"time"
)

// RolloutWorkflowName is the stable registration name for the rollout
// workflow across durable engines.
const RolloutWorkflowName = "deployment-rollout"

// ComputePlanInput carries the descriptors and strategy spec into the
// serving plan activity.
type ComputePlanInput struct {
	Variants []VariantDescriptor
	Strategy StrategySpec
}

// PlanShiftInput asks the strategy for the traffic shift steps, if any.
type PlanShiftInput struct {
	Strategy StrategySpec
	Plan     ServingPlan
}

// ApplyRoutingInput carries one routing table to the traffic controller.
type ApplyRoutingInput struct {
	Endpoint     EndpointInfo
	DeploymentID DeploymentID
	StepIndex    int
	Routing      []RoutingEntry
}

// AwaitBakeInput holds the bake duration between shift steps.
type AwaitBakeInput struct {
	Duration time.Duration
}

// RolloutResult is the terminal outcome of a rollout workflow.
type RolloutResult struct {
	DeploymentID DeploymentID
	Strategy     StrategyType
	State        DeploymentState
	StepsApplied int
}

// RolloutWorkflow drives a deployment from pending to active: load the
// deployment and its endpoint, compute the serving plan, and apply
// routing to the endpoint, stepping and baking when the strategy shifts
// traffic gradually. Every effect runs as a named activity so durable
// engines can persist and replay the execution.
type RolloutWorkflow struct {
	Deployments DeploymentRepository
	Endpoints   EndpointRepository
	Traffic     TrafficController
	Strategies  StrategyFactory

	// Now is used for record timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (wf *RolloutWorkflow) now() time.Time {
	if wf.Now != nil {
		return wf.Now()
	}
	return time.Now().UTC()
}

func (wf *RolloutWorkflow) strategies() StrategyFactory {
	if wf.Strategies != nil {
		return wf.Strategies
	}
	return DefaultStrategyFactory{}
}

// Name returns the stable workflow registration name.
func (wf *RolloutWorkflow) Name() string { return RolloutWorkflowName }

// LoadDeployment fetches the deployment under rollout.
func (wf *RolloutWorkflow) LoadDeployment() Activity[DeploymentID, Deployment] {
	return NewActivity("load-deployment", func(ctx context.Context, id DeploymentID) (Deployment, error) {
		return wf.Deployments.Get(ctx, id)
	})
}

// LoadEndpoint fetches the serving endpoint the deployment targets. An
// unregistered endpoint fails the rollout with [ErrNotFound].
func (wf *RolloutWorkflow) LoadEndpoint() Activity[EndpointName, EndpointInfo] {
	return NewActivity("load-endpoint", func(ctx context.Context, name EndpointName) (EndpointInfo, error) {
		return wf.Endpoints.Get(ctx, name)
	})
}

// ComputeServingPlan validates the descriptors and runs the serving
// strategy. It runs as an activity so custom strategies may perform I/O.
func (wf *RolloutWorkflow) ComputeServingPlan() Activity[ComputePlanInput, ServingPlan] {
	return NewActivity("compute-serving-plan", func(ctx context.Context, in ComputePlanInput) (ServingPlan, error) {
		set, err := BuildVariantSet(in.Variants)
		if err != nil {
			return ServingPlan{}, err
		}
		strategy, err := wf.strategies().Strategy(in.Strategy)
		if err != nil {
			return ServingPlan{}, err
		}
		return strategy.Plan(ctx, set)
	})
}

// PlanTrafficShift materializes the shift step sequence for strategies
// that implement [TrafficShifter]; other strategies yield no steps.
func (wf *RolloutWorkflow) PlanTrafficShift() Activity[PlanShiftInput, []RolloutStep] {
	return NewActivity("plan-traffic-shift", func(_ context.Context, in PlanShiftInput) ([]RolloutStep, error) {
		strategy, err := wf.strategies().Strategy(in.Strategy)
		if err != nil {
			return nil, err
		}
		shifter, ok := strategy.(TrafficShifter)
		if !ok {
			return nil, nil
		}
		return shifter.ShiftSteps(ResolveShift(in.Strategy), in.Plan)
	})
}

// ApplyRouting applies one routing table to the endpoint via the traffic
// controller.
func (wf *RolloutWorkflow) ApplyRouting() Activity[ApplyRoutingInput, TrafficResult] {
	return NewActivity("apply-routing", func(ctx context.Context, in ApplyRoutingInput) (TrafficResult, error) {
		return wf.Traffic.Apply(ctx, in.Endpoint, in.DeploymentID, in.StepIndex, in.Routing)
	})
}

// AwaitBake holds the bake time between consecutive shift steps.
func (wf *RolloutWorkflow) AwaitBake() Activity[AwaitBakeInput, struct{}] {
	return NewActivity("await-bake", func(ctx context.Context, in AwaitBakeInput) (struct{}, error) {
		if in.Duration <= 0 {
			return struct{}{}, nil
		}
		timer := time.NewTimer(in.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		case <-timer.C:
			return struct{}{}, nil
		}
	})
}

// UpdateDeployment persists a deployment state transition.
func (wf *RolloutWorkflow) UpdateDeployment() Activity[Deployment, struct{}] {
	return NewActivity("update-deployment", func(ctx context.Context, d Deployment) (struct{}, error) {
		d.UpdatedAt = wf.now()
		return struct{}{}, wf.Deployments.Update(ctx, d)
	})
}

// Run executes the rollout. With no shift steps the plan's routing is
// applied once; with steps the deployment is marked shifting, each step's
// routing is applied with a bake in between (none after the last), and
// the final routing is persisted with the active state. Errors propagate
// to the engine unwrapped; there is no compensation logic.
func (wf *RolloutWorkflow) Run(runner DurableRunner, id DeploymentID) (RolloutResult, error) {
	dep, err := RunActivity(runner, wf.LoadDeployment(), id)
	if err != nil {
		return RolloutResult{}, err
	}
	endpoint, err := RunActivity(runner, wf.LoadEndpoint(), dep.Endpoint)
	if err != nil {
		return RolloutResult{}, err
	}
	plan, err := RunActivity(runner, wf.ComputeServingPlan(), ComputePlanInput{Variants: dep.Variants, Strategy: dep.Strategy})
	if err != nil {
		return RolloutResult{}, err
	}
	steps, err := RunActivity(runner, wf.PlanTrafficShift(), PlanShiftInput{Strategy: dep.Strategy, Plan: plan})
	if err != nil {
		return RolloutResult{}, err
	}

	if len(steps) == 0 {
		if _, err := RunActivity(runner, wf.ApplyRouting(), ApplyRoutingInput{
			Endpoint:     endpoint,
			DeploymentID: dep.ID,
			Routing:      plan.Routing,
		}); err != nil {
			return RolloutResult{}, err
		}
		dep.State = DeploymentStateActive
		dep.Routing = plan.Routing
		if _, err := RunActivity(runner, wf.UpdateDeployment(), dep); err != nil {
			return RolloutResult{}, err
		}
		return RolloutResult{DeploymentID: dep.ID, Strategy: dep.Strategy.Type, State: dep.State, StepsApplied: 1}, nil
	}

	dep.State = DeploymentStateShifting
	if _, err := RunActivity(runner, wf.UpdateDeployment(), dep); err != nil {
		return RolloutResult{}, err
	}

	shift := ResolveShift(dep.Strategy)
	var final []RoutingEntry
	for i, step := range steps {
		routing, err := StepRouting(plan, step)
		if err != nil {
			return RolloutResult{}, err
		}
		if _, err := RunActivity(runner, wf.ApplyRouting(), ApplyRoutingInput{
			Endpoint:     endpoint,
			DeploymentID: dep.ID,
			StepIndex:    step.StepIndex,
			Routing:      routing,
		}); err != nil {
			return RolloutResult{}, err
		}
		final = routing
		if i < len(steps)-1 {
			if _, err := RunActivity(runner, wf.AwaitBake(), AwaitBakeInput{Duration: shift.BakeTime}); err != nil {
				return RolloutResult{}, err
			}
		}
	}

	dep.State = DeploymentStateActive
	dep.Routing = final
	if _, err := RunActivity(runner, wf.UpdateDeployment(), dep); err != nil {
		return RolloutResult{}, err
	}
	return RolloutResult{DeploymentID: dep.ID, Strategy: dep.Strategy.Type, State: dep.State, StepsApplied: len(steps)}, nil
}
