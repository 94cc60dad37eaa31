// Package rolloutrecordrepotest provides contract tests for
// [domain.RolloutRecordRepository] implementations.
package rolloutrecordrepotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Factory creates a fresh [domain.RolloutRecordRepository] for each test.
type Factory func(t *testing.T) domain.RolloutRecordRepository

// Run exercises the [domain.RolloutRecordRepository] contract.
func Run(t *testing.T, factory Factory) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	t.Run("PutAndGet", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		rec := domain.RolloutRecord{
			DeploymentID: "d1",
			Endpoint:     "ranker-prod",
			StepIndex:    0,
			Routing: []domain.RoutingEntry{
				{Variant: "ranker-v1", Weight: 0.9},
				{Variant: "ranker-v2", Weight: 0.1},
			},
			State:     domain.TrafficStateApplied,
			UpdatedAt: now,
		}

		if err := repo.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := repo.Get(ctx, "d1", 0)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.State != domain.TrafficStateApplied {
			t.Errorf("State = %q, want %q", got.State, domain.TrafficStateApplied)
		}
		if len(got.Routing) != 2 {
			t.Errorf("Routing len = %d, want 2", len(got.Routing))
		}
		if got.Routing[1].Weight != 0.1 {
			t.Errorf("Routing[1].Weight = %v, want 0.1", got.Routing[1].Weight)
		}
	})

	t.Run("PutUpserts", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		rec := domain.RolloutRecord{
			DeploymentID: "d1", Endpoint: "ranker-prod", StepIndex: 0,
			State: domain.TrafficStatePending, UpdatedAt: now,
		}
		_ = repo.Put(ctx, rec)

		rec.State = domain.TrafficStateApplied
		rec.UpdatedAt = now.Add(time.Minute)
		if err := repo.Put(ctx, rec); err != nil {
			t.Fatalf("second Put: %v", err)
		}

		got, _ := repo.Get(ctx, "d1", 0)
		if got.State != domain.TrafficStateApplied {
			t.Errorf("State after upsert = %q, want %q", got.State, domain.TrafficStateApplied)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		repo := factory(t)
		_, err := repo.Get(context.Background(), "d1", 0)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Get: got %v, want ErrNotFound", err)
		}
	})

	t.Run("ListByDeploymentOrdersByStep", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		// Inserted out of order; listed by step index.
		for _, step := range []int{2, 0, 1} {
			_ = repo.Put(ctx, domain.RolloutRecord{
				DeploymentID: "d1", Endpoint: "ranker-prod", StepIndex: step,
				State: domain.TrafficStateApplied, UpdatedAt: now,
			})
		}
		_ = repo.Put(ctx, domain.RolloutRecord{
			DeploymentID: "d2", Endpoint: "ranker-prod", StepIndex: 0,
			State: domain.TrafficStateApplied, UpdatedAt: now,
		})

		got, err := repo.ListByDeployment(ctx, "d1")
		if err != nil {
			t.Fatalf("ListByDeployment: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("ListByDeployment: got %d, want 3", len(got))
		}
		for i, rec := range got {
			if rec.StepIndex != i {
				t.Errorf("record %d has StepIndex %d, want %d", i, rec.StepIndex, i)
			}
		}
	})

	t.Run("DeleteByDeployment", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		for _, step := range []int{0, 1} {
			_ = repo.Put(ctx, domain.RolloutRecord{
				DeploymentID: "d1", Endpoint: "ranker-prod", StepIndex: step,
				State: domain.TrafficStateApplied, UpdatedAt: now,
			})
		}

		if err := repo.DeleteByDeployment(ctx, "d1"); err != nil {
			t.Fatalf("DeleteByDeployment: %v", err)
		}

		got, _ := repo.ListByDeployment(ctx, "d1")
		if len(got) != 0 {
			t.Fatalf("after delete: got %d records, want 0", len(got))
		}

		if err := repo.DeleteByDeployment(ctx, "never-rolled-out"); err != nil {
			t.Errorf("DeleteByDeployment(unknown): got %v, want nil", err)
		}
	})
}
