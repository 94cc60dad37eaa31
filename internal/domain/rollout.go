package domain

import "fmt"

// ShiftSteps computes the full traffic shift for a blue/green plan. The
// plan's initial routing supplies the existing and candidate weights, so
// the sequence always lands the candidate on the plan's total weight.
func ShiftSteps(spec TrafficShiftSpec, plan ServingPlan) ([]RolloutStep, error) {
	if len(plan.Routing) != 2 {
		return nil, fmt.Errorf("%w: traffic shift expects a blue/green pair, got %d routed variants", ErrWrongVariantCount, len(plan.Routing))
	}
	var planner TrafficShiftPlanner
	return planner.ComputeSteps(plan.Routing[0].Weight, plan.Routing[1].Weight, spec.StepSize, spec.CanarySize)
}

// StepRouting expands one rollout step against a blue/green plan into the
// routing table to apply for that step. The positional role convention is
// resolved here and nowhere else: routing entry zero is the existing
// variant, entry one the candidate.
func StepRouting(plan ServingPlan, step RolloutStep) ([]RoutingEntry, error) {
	if len(plan.Routing) != 2 {
		return nil, fmt.Errorf("%w: traffic shift expects a blue/green pair, got %d routed variants", ErrWrongVariantCount, len(plan.Routing))
	}
	return []RoutingEntry{
		{Variant: plan.Routing[0].Variant, Weight: step.OldWeight},
		{Variant: plan.Routing[1].Variant, Weight: step.NewWeight},
	}, nil
}
