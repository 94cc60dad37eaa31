package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/metrics"
)

// RecordingTrafficController implements [domain.TrafficController] by
// writing rollout records to SQLite. This is the naive implementation used
// until a provider-backed controller that reconfigures live endpoints is
// available.
type RecordingTrafficController struct {
	Records *RolloutRecordRepo
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

func (s *RecordingTrafficController) Apply(ctx context.Context, endpoint domain.EndpointInfo, deploymentID domain.DeploymentID, stepIndex int, routing []domain.RoutingEntry) (domain.TrafficResult, error) {
	rec := domain.RolloutRecord{
		DeploymentID: deploymentID,
		Endpoint:     endpoint.Name,
		StepIndex:    stepIndex,
		Routing:      routing,
		State:        domain.TrafficStateApplied,
		UpdatedAt:    s.now(),
	}
	if err := s.Records.Put(ctx, rec); err != nil {
		return domain.TrafficResult{State: domain.TrafficStateFailed}, err
	}
	s.Metrics.RecordStep(string(endpoint.Name))
	for _, entry := range routing {
		s.Metrics.SetTrafficWeight(string(endpoint.Name), string(entry.Variant), entry.Weight)
	}
	s.logger().Debug("routing applied",
		zap.String("endpoint", string(endpoint.Name)),
		zap.String("deployment_id", string(deploymentID)),
		zap.Int("step", stepIndex))
	return domain.TrafficResult{State: domain.TrafficStateApplied}, nil
}

// Release withdraws a deployment's routing from an endpoint. The recording
// implementation marks the last applied step pending and zeroes the weight
// gauges; a real controller would send the endpoint a new routing table.
func (s *RecordingTrafficController) Release(ctx context.Context, endpoint domain.EndpointName, deploymentID domain.DeploymentID) error {
	records, err := s.Records.ListByDeployment(ctx, deploymentID)
	if err != nil {
		return fmt.Errorf("list rollout records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	last := records[len(records)-1]
	for _, entry := range last.Routing {
		s.Metrics.SetTrafficWeight(string(endpoint), string(entry.Variant), 0)
	}
	last.State = domain.TrafficStatePending
	last.UpdatedAt = s.now()
	return s.Records.Put(ctx, last)
}

func (s *RecordingTrafficController) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RecordingTrafficController) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
