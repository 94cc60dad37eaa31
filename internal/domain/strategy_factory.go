package domain

import "fmt"

// StrategyFactory instantiates the appropriate serving strategy
// implementation from a user-provided spec.
type StrategyFactory interface {
	Strategy(spec StrategySpec) (ServingStrategy, error)
}

// DefaultStrategyFactory creates built-in strategy implementations.
// Built-in strategies are pure with no I/O; the rollout pipeline still
// invokes strategies from activities so that custom strategies may
// perform I/O or stateful behavior safely.
type DefaultStrategyFactory struct{}

func (f DefaultStrategyFactory) Strategy(spec StrategySpec) (ServingStrategy, error) {
	switch spec.Type {
	case StrategySingleModel:
		return &SingleModelStrategy{}, nil
	case StrategyMultiVariant:
		return &MultiVariantStrategy{}, nil
	case StrategyBlueGreen:
		return &BlueGreenStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported serving strategy type %q", ErrInvalidArgument, spec.Type)
	}
}

// ResolveShift returns the traffic shift profile for a spec, applying the
// default when a blue/green spec leaves it unset.
func ResolveShift(spec StrategySpec) TrafficShiftSpec {
	if spec.TrafficShift != nil {
		return *spec.TrafficShift
	}
	return DefaultTrafficShift()
}
