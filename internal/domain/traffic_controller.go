package domain

import "context"

// TrafficController is the port through which the rollout workflow applies
// routing tables to live serving infrastructure. A provider-backed
// implementation reconfigures the endpoint; the initial implementation
// records each application in the database. Apply carries the step index
// so controllers can keep a per-step audit trail.
type TrafficController interface {
	Apply(ctx context.Context, endpoint EndpointInfo, deploymentID DeploymentID, stepIndex int, routing []RoutingEntry) (TrafficResult, error)
	Release(ctx context.Context, endpoint EndpointName, deploymentID DeploymentID) error
}
