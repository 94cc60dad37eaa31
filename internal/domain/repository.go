package domain

import "context"

// EndpointRepository stores the registry of serving endpoints. Create
// fails with [ErrAlreadyExists] when the name is taken; Get and Delete
// fail with [ErrNotFound] for unknown names.
type EndpointRepository interface {
	Create(ctx context.Context, endpoint EndpointInfo) error
	Get(ctx context.Context, name EndpointName) (EndpointInfo, error)
	List(ctx context.Context) ([]EndpointInfo, error)
	Delete(ctx context.Context, name EndpointName) error
}

// DeploymentRepository stores deployment aggregates. The same
// [ErrAlreadyExists] and [ErrNotFound] contract applies; Update fails
// with [ErrNotFound] when the deployment was never created.
type DeploymentRepository interface {
	Create(ctx context.Context, d Deployment) error
	Get(ctx context.Context, id DeploymentID) (Deployment, error)
	List(ctx context.Context) ([]Deployment, error)
	Update(ctx context.Context, d Deployment) error
	Delete(ctx context.Context, id DeploymentID) error
}

// RolloutRecordRepository stores the audit trail of applied routing
// tables, keyed by deployment and step index. Put upserts;
// ListByDeployment returns records in step order; DeleteByDeployment of
// an unknown deployment is a no-op.
type RolloutRecordRepository interface {
	Put(ctx context.Context, record RolloutRecord) error
	Get(ctx context.Context, deploymentID DeploymentID, stepIndex int) (RolloutRecord, error)
	ListByDeployment(ctx context.Context, deploymentID DeploymentID) ([]RolloutRecord, error)
	DeleteByDeployment(ctx context.Context, deploymentID DeploymentID) error
}
