package domain

import "fmt"

// RolloutStep is one movement of traffic from the existing variant to the
// candidate. OldWeight and NewWeight sum to the total weight the sequence
// was computed from; StepIndex is zero-based and contiguous.
type RolloutStep struct {
	OldWeight float64
	NewWeight float64
	StepIndex int
}

// TrafficShiftPlanner materializes the step sequence that moves traffic
// from an existing variant onto a candidate.
type TrafficShiftPlanner struct{}

// ComputeSteps returns the complete shift sequence up front. Step zero
// moves canarySize onto the candidate (the probe); every later step moves
// stepSize more; the final step is clamped so the candidate lands on
// exactly existingWeight+candidateWeight. A canary covering the whole
// remaining traffic yields a single step. There is no rollback sequence:
// recovering from a bad candidate is a new plan toward the old variant.
func (p *TrafficShiftPlanner) ComputeSteps(existingWeight, candidateWeight, stepSize, canarySize float64) ([]RolloutStep, error) {
	total := existingWeight + candidateWeight
	if total <= 0 {
		return nil, fmt.Errorf("%w: existing %v + candidate %v", ErrInvalidTotal, existingWeight, candidateWeight)
	}
	if stepSize <= 0 || stepSize > total {
		return nil, fmt.Errorf("%w: %v with total %v", ErrInvalidStepSize, stepSize, total)
	}
	if canarySize < 0 || canarySize > total {
		return nil, fmt.Errorf("%w: %v with total %v", ErrInvalidCanarySize, canarySize, total)
	}

	var steps []RolloutStep
	for i := 0; ; i++ {
		// Recomputed from the index each iteration so float error does
		// not accumulate across steps.
		w := candidateWeight + canarySize + float64(i)*stepSize
		if w >= total {
			w = total
		}
		steps = append(steps, RolloutStep{OldWeight: total - w, NewWeight: w, StepIndex: i})
		if w == total {
			return steps, nil
		}
	}
}
