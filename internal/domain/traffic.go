package domain

import "time"

// TrafficState indicates the outcome of applying one routing table to an
// endpoint.
type TrafficState string

const (
	TrafficStatePending TrafficState = "pending"
	TrafficStateApplied TrafficState = "applied"
	TrafficStateFailed  TrafficState = "failed"
)

// RolloutRecord captures one routing table applied to an endpoint during
// a rollout. Blue/green deployments produce one record per shift step;
// single-model and multi-variant deployments produce exactly one with
// step index zero. Together the records are the audit trail of how
// traffic moved.
type RolloutRecord struct {
	DeploymentID DeploymentID
	Endpoint     EndpointName
	StepIndex    int
	Routing      []RoutingEntry
	State        TrafficState
	UpdatedAt    time.Time
}

// TrafficResult is the outcome of a single routing application.
type TrafficResult struct {
	State TrafficState
}
