// Package endpointrepotest provides contract tests for
// [domain.EndpointRepository] implementations.
package endpointrepotest

import (
	"context"
	"errors"
	"testing"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Factory creates a fresh [domain.EndpointRepository] for each test invocation.
type Factory func(t *testing.T) domain.EndpointRepository

// Run exercises the [domain.EndpointRepository] contract.
func Run(t *testing.T, factory Factory) {
	t.Run("CreateAndGet", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		err := repo.Create(ctx, domain.EndpointInfo{
			Name:        "ranker-prod",
			Environment: "prod",
			Labels:      map[string]string{"team": "search"},
			Properties:  map[string]string{"region": "us-east"},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.Get(ctx, "ranker-prod")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Environment != "prod" {
			t.Errorf("Environment = %q, want %q", got.Environment, "prod")
		}
		if got.Labels["team"] != "search" {
			t.Errorf("Labels[team] = %q, want %q", got.Labels["team"], "search")
		}
		if got.Properties["region"] != "us-east" {
			t.Errorf("Properties[region] = %q, want %q", got.Properties["region"], "us-east")
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		endpoint := domain.EndpointInfo{Name: "ranker-prod", Environment: "prod"}

		if err := repo.Create(ctx, endpoint); err != nil {
			t.Fatalf("first Create: %v", err)
		}
		if err := repo.Create(ctx, endpoint); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("second Create: got %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		for _, e := range []domain.EndpointInfo{
			{Name: "ranker-prod", Environment: "prod"},
			{Name: "ranker-staging", Environment: "staging"},
		} {
			if err := repo.Create(ctx, e); err != nil {
				t.Fatalf("Create %s: %v", e.Name, err)
			}
		}

		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		names := map[domain.EndpointName]bool{}
		for _, e := range got {
			names[e.Name] = true
		}
		if len(got) != 2 || !names["ranker-prod"] || !names["ranker-staging"] {
			t.Fatalf("List: got %v, want ranker-prod and ranker-staging", names)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		if err := repo.Create(ctx, domain.EndpointInfo{Name: "ranker-prod"}); err != nil {
			t.Fatal(err)
		}
		if err := repo.Delete(ctx, "ranker-prod"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.Get(ctx, "ranker-prod"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for name, call := range map[string]func() error{
			"Get":    func() error { _, err := repo.Get(ctx, "nonexistent"); return err },
			"Delete": func() error { return repo.Delete(ctx, "nonexistent") },
		} {
			if err := call(); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("%s(nonexistent): got %v, want ErrNotFound", name, err)
			}
		}
	})
}
