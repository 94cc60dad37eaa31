package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// CreateDeploymentInput is the caller-provided input for creating a deployment.
type CreateDeploymentInput struct {
	ID       domain.DeploymentID
	Endpoint domain.EndpointName
	Variants []domain.VariantDescriptor
	Strategy domain.StrategySpec
}

// DeploymentService manages deployment lifecycle and triggers rollouts.
type DeploymentService struct {
	Deployments domain.DeploymentRepository
	Records     domain.RolloutRecordRepository
	Endpoints   domain.EndpointRepository
	Traffic     domain.TrafficController
	Rollouts    *RolloutService

	// Strategies defaults to [domain.DefaultStrategyFactory]; Logger to a
	// no-op logger; Now to time.Now.
	Strategies domain.StrategyFactory
	Logger     *zap.Logger
	Now        func() time.Time
}

func (s *DeploymentService) strategies() domain.StrategyFactory {
	if s.Strategies != nil {
		return s.Strategies
	}
	return domain.DefaultStrategyFactory{}
}

func (s *DeploymentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *DeploymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Create persists a new deployment and runs its rollout to completion.
// Variant descriptors and the strategy spec are validated eagerly so bad
// input is rejected before anything is stored.
func (s *DeploymentService) Create(ctx context.Context, in CreateDeploymentInput) (domain.Deployment, error) {
	if in.ID == "" {
		return domain.Deployment{}, fmt.Errorf("%w: deployment ID is required", domain.ErrInvalidArgument)
	}
	if in.Endpoint == "" {
		return domain.Deployment{}, fmt.Errorf("%w: endpoint name is required", domain.ErrInvalidArgument)
	}
	if _, err := domain.BuildVariantSet(in.Variants); err != nil {
		return domain.Deployment{}, err
	}
	if _, err := s.strategies().Strategy(in.Strategy); err != nil {
		return domain.Deployment{}, err
	}
	if _, err := s.Endpoints.Get(ctx, in.Endpoint); err != nil {
		return domain.Deployment{}, fmt.Errorf("endpoint %q: %w", in.Endpoint, err)
	}

	now := s.now()
	dep := domain.Deployment{
		ID:        in.ID,
		Endpoint:  in.Endpoint,
		Variants:  in.Variants,
		Strategy:  in.Strategy,
		State:     domain.DeploymentStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Deployments.Create(ctx, dep); err != nil {
		return domain.Deployment{}, err
	}
	s.logger().Info("deployment created",
		zap.String("deployment", string(dep.ID)),
		zap.String("endpoint", string(dep.Endpoint)),
		zap.String("strategy", string(dep.Strategy.Type)))

	if _, err := s.Rollouts.Rollout(ctx, dep.ID); err != nil {
		return domain.Deployment{}, fmt.Errorf("rollout: %w", err)
	}

	return s.Deployments.Get(ctx, dep.ID)
}

// Get retrieves a deployment by ID.
func (s *DeploymentService) Get(ctx context.Context, id domain.DeploymentID) (domain.Deployment, error) {
	return s.Deployments.Get(ctx, id)
}

// List returns all deployments.
func (s *DeploymentService) List(ctx context.Context) ([]domain.Deployment, error) {
	return s.Deployments.List(ctx)
}

// Delete releases the deployment's traffic and removes it along with its
// rollout records.
func (s *DeploymentService) Delete(ctx context.Context, id domain.DeploymentID) error {
	dep, err := s.Deployments.Get(ctx, id)
	if err != nil {
		return err
	}
	dep.State = domain.DeploymentStateDeleting
	dep.UpdatedAt = s.now()
	if err := s.Deployments.Update(ctx, dep); err != nil {
		return err
	}

	if err := s.Traffic.Release(ctx, dep.Endpoint, id); err != nil {
		return fmt.Errorf("release traffic: %w", err)
	}
	if err := s.Records.DeleteByDeployment(ctx, id); err != nil {
		return fmt.Errorf("delete rollout records: %w", err)
	}
	if err := s.Deployments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("deployment deleted", zap.String("deployment", string(id)))
	return nil
}
