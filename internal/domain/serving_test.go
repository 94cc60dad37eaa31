package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

func mustSet(t *testing.T, descs ...domain.VariantDescriptor) domain.VariantSet {
	t.Helper()
	set, err := domain.BuildVariantSet(descs)
	if err != nil {
		t.Fatalf("BuildVariantSet: %v", err)
	}
	return set
}

func weighted(name string, weight float64) domain.VariantDescriptor {
	d := validDescriptor(name)
	d.Weight = weight
	return d
}

func TestSingleModelStrategy_PlansOneVariant(t *testing.T) {
	s := &domain.SingleModelStrategy{}
	set := mustSet(t, weighted("ranker", 1.0))

	plan, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Routing) != 1 {
		t.Fatalf("Routing len = %d, want 1", len(plan.Routing))
	}
	if plan.Routing[0].Variant != "ranker" || plan.Routing[0].Weight != 1.0 {
		t.Errorf("Routing[0] = %+v, want ranker@1", plan.Routing[0])
	}
	if len(plan.Variants) != 1 {
		t.Errorf("Variants len = %d, want 1", len(plan.Variants))
	}
}

func TestSingleModelStrategy_WeightIsLiteral(t *testing.T) {
	// The conventional weight is 1.0 but any declared value passes through.
	s := &domain.SingleModelStrategy{}
	plan, err := s.Plan(context.Background(), mustSet(t, weighted("ranker", 0.5)))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Routing[0].Weight != 0.5 {
		t.Errorf("Weight = %v, want the literal 0.5", plan.Routing[0].Weight)
	}
}

func TestSingleModelStrategy_RejectsMultipleVariants(t *testing.T) {
	s := &domain.SingleModelStrategy{}
	set := mustSet(t, validDescriptor("a"), validDescriptor("b"))
	_, err := s.Plan(context.Background(), set)
	if !errors.Is(err, domain.ErrTooManyVariants) {
		t.Fatalf("got %v, want ErrTooManyVariants", err)
	}
}

func TestMultiVariantStrategy_RoutesAllInOrder(t *testing.T) {
	s := &domain.MultiVariantStrategy{}
	set := mustSet(t, weighted("heavy", 3), weighted("light", 1), weighted("shadow", 0))

	plan, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []domain.RoutingEntry{
		{Variant: "heavy", Weight: 3},
		{Variant: "light", Weight: 1},
		{Variant: "shadow", Weight: 0},
	}
	if diff := cmp.Diff(want, plan.Routing); diff != "" {
		t.Errorf("Routing mismatch (-want +got):\n%s", diff)
	}
	// Weights stay literal: the table sums to 4, not 1.
	if got := plan.TotalWeight(); got != 4 {
		t.Errorf("TotalWeight = %v, want 4", got)
	}
}

func TestMultiVariantStrategy_SingleVariant(t *testing.T) {
	s := &domain.MultiVariantStrategy{}
	plan, err := s.Plan(context.Background(), mustSet(t, weighted("only", 2)))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Routing) != 1 || plan.Routing[0].Weight != 2 {
		t.Errorf("Routing = %+v, want [only@2]", plan.Routing)
	}
}

func TestBlueGreenStrategy_InitialRoutingIgnoresDeclaredWeights(t *testing.T) {
	s := &domain.BlueGreenStrategy{}
	set := mustSet(t, weighted("current", 0.3), weighted("candidate", 0.7))

	plan, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []domain.RoutingEntry{
		{Variant: "current", Weight: 1.0},
		{Variant: "candidate", Weight: 0.0},
	}
	if diff := cmp.Diff(want, plan.Routing); diff != "" {
		t.Errorf("Routing mismatch (-want +got):\n%s", diff)
	}
}

func TestBlueGreenStrategy_RoleIsPositional(t *testing.T) {
	s := &domain.BlueGreenStrategy{}
	plan, err := s.Plan(context.Background(), mustSet(t, validDescriptor("b"), validDescriptor("a")))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Routing[0].Variant != "b" || plan.Routing[0].Weight != 1.0 {
		t.Errorf("first listed variant must carry all traffic, got %+v", plan.Routing[0])
	}
	if plan.Routing[1].Variant != "a" || plan.Routing[1].Weight != 0.0 {
		t.Errorf("second listed variant must start dark, got %+v", plan.Routing[1])
	}
}

func TestBlueGreenStrategy_RejectsWrongCount(t *testing.T) {
	s := &domain.BlueGreenStrategy{}
	for _, set := range []domain.VariantSet{
		mustSet(t, validDescriptor("only")),
		mustSet(t, validDescriptor("a"), validDescriptor("b"), validDescriptor("c")),
	} {
		_, err := s.Plan(context.Background(), set)
		if !errors.Is(err, domain.ErrWrongVariantCount) {
			t.Fatalf("%d variants: got %v, want ErrWrongVariantCount", set.Len(), err)
		}
	}
}

func TestStrategies_DeterministicAndFresh(t *testing.T) {
	set := mustSet(t, weighted("a", 2), weighted("b", 1))
	s := &domain.MultiVariantStrategy{}

	first, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	second, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Plan differs (-first +second):\n%s", diff)
	}

	// Mutating one returned plan must not leak into the next.
	first.Routing[0].Weight = 99
	third, err := s.Plan(context.Background(), set)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if third.Routing[0].Weight != 2 {
		t.Errorf("plan shares state across calls: Weight = %v, want 2", third.Routing[0].Weight)
	}
}

func TestDefaultStrategyFactory(t *testing.T) {
	f := domain.DefaultStrategyFactory{}

	cases := []struct {
		spec domain.StrategyType
		want any
	}{
		{domain.StrategySingleModel, &domain.SingleModelStrategy{}},
		{domain.StrategyMultiVariant, &domain.MultiVariantStrategy{}},
		{domain.StrategyBlueGreen, &domain.BlueGreenStrategy{}},
	}
	for _, tc := range cases {
		s, err := f.Strategy(domain.StrategySpec{Type: tc.spec})
		if err != nil {
			t.Fatalf("Strategy(%q): %v", tc.spec, err)
		}
		if diff := cmp.Diff(tc.want, s); diff != "" {
			t.Errorf("Strategy(%q) mismatch:\n%s", tc.spec, diff)
		}
	}

	_, err := f.Strategy(domain.StrategySpec{Type: "canary-by-vibes"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("unknown type: got %v, want ErrInvalidArgument", err)
	}
}

func TestResolveShift_DefaultsWhenUnset(t *testing.T) {
	got := domain.ResolveShift(domain.StrategySpec{Type: domain.StrategyBlueGreen})
	if got != domain.DefaultTrafficShift() {
		t.Errorf("ResolveShift = %+v, want the default profile", got)
	}

	custom := domain.TrafficShiftSpec{CanarySize: 0.05, StepSize: 0.5}
	got = domain.ResolveShift(domain.StrategySpec{Type: domain.StrategyBlueGreen, TrafficShift: &custom})
	if got != custom {
		t.Errorf("ResolveShift = %+v, want %+v", got, custom)
	}
}
