// Package deploymentrepotest provides contract tests for
// [domain.DeploymentRepository] implementations.
package deploymentrepotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Factory creates a fresh [domain.DeploymentRepository] for each test.
type Factory func(t *testing.T) domain.DeploymentRepository

// Run exercises the [domain.DeploymentRepository] contract.
func Run(t *testing.T, factory Factory) {
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	sampleDeployment := func() domain.Deployment {
		return domain.Deployment{
			ID:       "d1",
			Endpoint: "ranker-prod",
			Variants: []domain.VariantDescriptor{
				{
					Name:          "ranker-v1",
					Artifact:      domain.ArtifactLocation{Bucket: "model-artifacts", Key: "ranker/v1/model.tar.gz"},
					Image:         "registry.example.com/serving:1.4.0",
					InstanceType:  "gpu-a10-xlarge",
					InstanceCount: 2,
					Weight:        1.0,
				},
			},
			Strategy: domain.StrategySpec{
				Type:         domain.StrategyBlueGreen,
				TrafficShift: &domain.TrafficShiftSpec{CanarySize: 0.1, StepSize: 0.2, BakeTime: time.Minute},
			},
			State:     domain.DeploymentStatePending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		if err := repo.Create(ctx, sampleDeployment()); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.Get(ctx, "d1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}

		if got.Endpoint != "ranker-prod" {
			t.Errorf("Endpoint = %q, want %q", got.Endpoint, "ranker-prod")
		}
		if got.Strategy.Type != domain.StrategyBlueGreen {
			t.Errorf("Strategy.Type = %q, want %q", got.Strategy.Type, domain.StrategyBlueGreen)
		}
		if got.Strategy.TrafficShift == nil || got.Strategy.TrafficShift.BakeTime != time.Minute {
			t.Errorf("Strategy.TrafficShift = %+v, want the stored shift profile", got.Strategy.TrafficShift)
		}
		if len(got.Variants) != 1 || got.Variants[0].Artifact.Key != "ranker/v1/model.tar.gz" {
			t.Errorf("Variants = %+v, want the stored descriptor", got.Variants)
		}
		if got.State != domain.DeploymentStatePending {
			t.Errorf("State = %q, want %q", got.State, domain.DeploymentStatePending)
		}
		if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
			t.Errorf("timestamps = %v/%v, want %v round-tripped", got.CreatedAt, got.UpdatedAt, now)
		}
		if got.Routing != nil {
			t.Errorf("Routing = %+v, want nil before any rollout", got.Routing)
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		d := sampleDeployment()
		_ = repo.Create(ctx, d)
		if err := repo.Create(ctx, d); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("second Create: got %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		d := sampleDeployment()
		_ = repo.Create(ctx, d)

		d.State = domain.DeploymentStateActive
		d.Routing = []domain.RoutingEntry{
			{Variant: "ranker-v1", Weight: 0},
			{Variant: "ranker-v2", Weight: 1.0},
		}
		d.UpdatedAt = now.Add(time.Hour)
		if err := repo.Update(ctx, d); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, _ := repo.Get(ctx, "d1")
		if got.State != domain.DeploymentStateActive {
			t.Errorf("State after Update = %q, want %q", got.State, domain.DeploymentStateActive)
		}
		if len(got.Routing) != 2 || got.Routing[1].Weight != 1.0 {
			t.Errorf("Routing after Update = %+v, want the final table", got.Routing)
		}
		if !got.UpdatedAt.After(got.CreatedAt) {
			t.Errorf("UpdatedAt = %v, want after CreatedAt %v", got.UpdatedAt, got.CreatedAt)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		d1 := sampleDeployment()
		d2 := sampleDeployment()
		d2.ID = "d2"
		_ = repo.Create(ctx, d1)
		_ = repo.Create(ctx, d2)

		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		ids := map[domain.DeploymentID]bool{}
		for _, d := range got {
			ids[d.ID] = true
		}
		if len(got) != 2 || !ids["d1"] || !ids["d2"] {
			t.Fatalf("List: got %v, want d1 and d2", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		_ = repo.Create(ctx, sampleDeployment())
		if err := repo.Delete(ctx, "d1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.Get(ctx, "d1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for name, call := range map[string]func() error{
			"Get":    func() error { _, err := repo.Get(ctx, "nonexistent"); return err },
			"Update": func() error { return repo.Update(ctx, domain.Deployment{ID: "nonexistent"}) },
			"Delete": func() error { return repo.Delete(ctx, "nonexistent") },
		} {
			if err := call(); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("%s(nonexistent): got %v, want ErrNotFound", name, err)
			}
		}
	})
}
