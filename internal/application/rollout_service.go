package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/metrics"
)

// RolloutService executes the deployment rollout as a durable workflow.
type RolloutService struct {
	Workflow domain.RolloutRunner
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func (s *RolloutService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Rollout starts the rollout workflow for a deployment and waits for it
// to complete.
func (s *RolloutService) Rollout(ctx context.Context, deploymentID domain.DeploymentID) (domain.RolloutResult, error) {
	handle, err := s.Workflow.Run(ctx, deploymentID)
	if err != nil {
		return domain.RolloutResult{}, fmt.Errorf("start rollout workflow: %w", err)
	}
	res, err := handle.AwaitResult(ctx)
	if err != nil {
		strategy := string(res.Strategy)
		if strategy == "" {
			strategy = "unknown"
		}
		s.Metrics.RecordRollout(strategy, metrics.OutcomeFailed)
		s.logger().Warn("rollout failed",
			zap.String("deployment_id", string(deploymentID)),
			zap.Error(err))
		return domain.RolloutResult{}, err
	}
	s.Metrics.RecordRollout(string(res.Strategy), metrics.OutcomeCompleted)
	s.logger().Info("rollout completed",
		zap.String("deployment_id", string(res.DeploymentID)),
		zap.String("strategy", string(res.Strategy)),
		zap.Int("steps_applied", res.StepsApplied))
	return res, nil
}
