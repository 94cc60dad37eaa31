package domain

import "context"

// ServingStrategy turns a validated variant set into a serving plan.
//
// Plan must be deterministic and idempotent: the same set yields the same
// plan, and the returned plan is freshly allocated so callers own it.
// Strategies never mutate the set and never normalize weights. The
// rollout pipeline invokes strategies from workflow activities, so custom
// implementations may perform I/O or stateful lookups safely; the
// built-in strategies are pure.
type ServingStrategy interface {
	Plan(ctx context.Context, set VariantSet) (ServingPlan, error)
}

// TrafficShifter is implemented by strategies whose plans move traffic
// gradually after the initial plan: the rollout pipeline asks the
// strategy for the step sequence instead of switching on spec types.
// Strategies that serve their full routing immediately do not implement
// it.
type TrafficShifter interface {
	ShiftSteps(spec TrafficShiftSpec, plan ServingPlan) ([]RolloutStep, error)
}
