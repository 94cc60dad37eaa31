package domain

import "time"

// StrategyType identifies the kind of serving strategy.
type StrategyType string

const (
	StrategySingleModel  StrategyType = "single-model"
	StrategyMultiVariant StrategyType = "multi-variant"
	StrategyBlueGreen    StrategyType = "blue-green"
)

// TrafficShiftSpec controls how a blue/green deployment moves traffic onto
// the candidate. Sizes are in the same units as routing weights; since a
// blue/green plan always opens at 1.0/0.0, profile sizes are fractions of
// one. BakeTime is the hold between consecutive steps; planning treats it
// as opaque and only the rollout workflow awaits it.
type TrafficShiftSpec struct {
	CanarySize float64
	StepSize   float64
	BakeTime   time.Duration
}

// StrategySpec is the user-provided specification of how an endpoint
// serves its variants. TrafficShift applies to blue/green only; nil means
// [DefaultTrafficShift].
type StrategySpec struct {
	Type         StrategyType
	TrafficShift *TrafficShiftSpec
}

// AllAtOnceShift cuts all traffic over to the candidate in a single step.
func AllAtOnceShift() TrafficShiftSpec {
	return TrafficShiftSpec{CanarySize: 1.0, StepSize: 1.0}
}

// CanaryTenPercentShift probes the candidate with 10% of traffic, bakes,
// then completes the shift in one more step.
func CanaryTenPercentShift() TrafficShiftSpec {
	return TrafficShiftSpec{CanarySize: 0.1, StepSize: 0.9, BakeTime: 20 * time.Minute}
}

// LinearTwentyPercentShift moves traffic in equal 20% increments with a
// short bake between steps.
func LinearTwentyPercentShift() TrafficShiftSpec {
	return TrafficShiftSpec{CanarySize: 0.2, StepSize: 0.2, BakeTime: 30 * time.Second}
}

// DefaultTrafficShift is the profile used when a blue/green spec does not
// name one.
func DefaultTrafficShift() TrafficShiftSpec {
	return LinearTwentyPercentShift()
}
