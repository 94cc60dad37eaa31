package domain

import (
	"context"
	"fmt"
)

// SingleModelStrategy serves exactly one variant. The variant's declared
// weight is passed through literally; by convention callers use 1.0.
type SingleModelStrategy struct{}

func (s *SingleModelStrategy) Plan(_ context.Context, set VariantSet) (ServingPlan, error) {
	if set.Len() != 1 {
		return ServingPlan{}, fmt.Errorf("%w: single-model serving requires exactly one variant, got %d", ErrTooManyVariants, set.Len())
	}
	v := set.At(0)
	return ServingPlan{
		Variants: set.Variants(),
		Routing:  []RoutingEntry{{Variant: v.Name, Weight: v.Weight}},
	}, nil
}

// MultiVariantStrategy serves every variant in the set side by side,
// routing to each by its declared weight, in insertion order. Weights are
// not normalized: a zero-weight variant is provisioned but receives no
// traffic, and a table summing to anything other than 1.0 is left as the
// caller wrote it.
type MultiVariantStrategy struct{}

func (s *MultiVariantStrategy) Plan(_ context.Context, set VariantSet) (ServingPlan, error) {
	routing := make([]RoutingEntry, set.Len())
	for i, v := range set.Variants() {
		routing[i] = RoutingEntry{Variant: v.Name, Weight: v.Weight}
	}
	return ServingPlan{Variants: set.Variants(), Routing: routing}, nil
}

// BlueGreenStrategy serves a pair of variants with all traffic on the
// first (existing) variant and none on the second (candidate),
// disregarding the pair's declared weights. Role is positional: callers
// list the existing variant first. Candidate traffic rises afterwards
// through [TrafficShiftPlanner] steps, never by replanning.
type BlueGreenStrategy struct{}

func (s *BlueGreenStrategy) Plan(_ context.Context, set VariantSet) (ServingPlan, error) {
	if set.Len() != 2 {
		return ServingPlan{}, fmt.Errorf("%w: blue/green serving requires exactly two variants, got %d", ErrWrongVariantCount, set.Len())
	}
	return ServingPlan{
		Variants: set.Variants(),
		Routing: []RoutingEntry{
			{Variant: set.At(0).Name, Weight: 1.0},
			{Variant: set.At(1).Name, Weight: 0.0},
		},
	}, nil
}

// ShiftSteps implements [TrafficShifter].
func (s *BlueGreenStrategy) ShiftSteps(spec TrafficShiftSpec, plan ServingPlan) ([]RolloutStep, error) {
	return ShiftSteps(spec, plan)
}
