package domain

import "time"

// DeploymentID identifies a deployment.
type DeploymentID string

// DeploymentState indicates the lifecycle state of a deployment.
type DeploymentState string

const (
	DeploymentStatePending  DeploymentState = "pending"
	DeploymentStateShifting DeploymentState = "shifting"
	DeploymentStateActive   DeploymentState = "active"
	DeploymentStateDeleting DeploymentState = "deleting"
)

// Deployment binds a set of variant descriptors to a serving endpoint
// under a serving strategy. Routing is filled in by the rollout workflow
// once traffic is fully applied; until then it is nil. A deployment whose
// shift fails stays in [DeploymentStateShifting]: there is no automatic
// rollback; recovery is a new deployment toward the old variant.
type Deployment struct {
	ID        DeploymentID
	Endpoint  EndpointName
	Variants  []VariantDescriptor
	Strategy  StrategySpec
	Routing   []RoutingEntry
	State     DeploymentState
	CreatedAt time.Time
	UpdatedAt time.Time
}
