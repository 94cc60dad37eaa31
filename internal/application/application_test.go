package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/application"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/infrastructure/sqlite"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/infrastructure/syncworkflow"
)

type testHarness struct {
	endpoints   *application.EndpointService
	deployments *application.DeploymentService
	records     *sqlite.RolloutRecordRepo
}

func setup(t *testing.T) testHarness {
	t.Helper()
	db := sqlite.OpenTestDB(t)

	endpointRepo := &sqlite.EndpointRepo{DB: db}
	deploymentRepo := &sqlite.DeploymentRepo{DB: db}
	recordRepo := &sqlite.RolloutRecordRepo{DB: db}

	traffic := &sqlite.RecordingTrafficController{
		Records: recordRepo,
		Now:     func() time.Time { return time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC) },
	}

	wf := &domain.RolloutWorkflow{
		Deployments: deploymentRepo,
		Endpoints:   endpointRepo,
		Traffic:     traffic,
		Strategies:  domain.DefaultStrategyFactory{},
	}
	runner, err := (&syncworkflow.Engine{}).RolloutRunner(wf)
	if err != nil {
		t.Fatalf("RolloutRunner: %v", err)
	}

	return testHarness{
		endpoints: &application.EndpointService{Endpoints: endpointRepo},
		deployments: &application.DeploymentService{
			Deployments: deploymentRepo,
			Records:     recordRepo,
			Endpoints:   endpointRepo,
			Traffic:     traffic,
			Rollouts:    &application.RolloutService{Workflow: runner},
		},
		records: recordRepo,
	}
}

func TestCreateDeployment_SingleModel(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	dep, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{variant("ranker-v1", 1.0)},
		Strategy: domain.StrategySpec{Type: domain.StrategySingleModel},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if dep.State != domain.DeploymentStateActive {
		t.Errorf("State = %q, want %q", dep.State, domain.DeploymentStateActive)
	}
	if len(dep.Routing) != 1 || dep.Routing[0].Variant != "ranker-v1" || dep.Routing[0].Weight != 1.0 {
		t.Errorf("Routing = %+v, want ranker-v1 at weight 1", dep.Routing)
	}

	records, err := h.records.ListByDeployment(ctx, "d1")
	if err != nil {
		t.Fatalf("ListByDeployment: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 rollout record, got %d", len(records))
	}
	if records[0].StepIndex != 0 || records[0].State != domain.TrafficStateApplied {
		t.Errorf("record = %+v, want applied step 0", records[0])
	}
}

func TestCreateDeployment_MultiVariant(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	dep, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{
			variant("ranker-a", 0.5),
			variant("ranker-b", 0.3),
			variant("ranker-c", 0.2),
		},
		Strategy: domain.StrategySpec{Type: domain.StrategyMultiVariant},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if dep.State != domain.DeploymentStateActive {
		t.Errorf("State = %q, want %q", dep.State, domain.DeploymentStateActive)
	}
	want := []domain.RoutingEntry{
		{Variant: "ranker-a", Weight: 0.5},
		{Variant: "ranker-b", Weight: 0.3},
		{Variant: "ranker-c", Weight: 0.2},
	}
	if len(dep.Routing) != len(want) {
		t.Fatalf("Routing: got %d entries, want %d", len(dep.Routing), len(want))
	}
	for i, entry := range want {
		if dep.Routing[i] != entry {
			t.Errorf("Routing[%d] = %+v, want %+v", i, dep.Routing[i], entry)
		}
	}

	records, _ := h.records.ListByDeployment(ctx, "d1")
	if len(records) != 1 {
		t.Fatalf("expected 1 rollout record, got %d", len(records))
	}
}

func TestCreateDeployment_BlueGreenStepRecords(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	dep, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{
			variant("ranker-v1", 1.0),
			variant("ranker-v2", 0),
		},
		Strategy: domain.StrategySpec{
			Type:         domain.StrategyBlueGreen,
			TrafficShift: &domain.TrafficShiftSpec{CanarySize: 0.2, StepSize: 0.2},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if dep.State != domain.DeploymentStateActive {
		t.Errorf("State = %q, want %q", dep.State, domain.DeploymentStateActive)
	}
	if len(dep.Routing) != 2 || dep.Routing[0].Weight != 0 || dep.Routing[1].Weight != 1.0 {
		t.Errorf("final Routing = %+v, want all traffic on ranker-v2", dep.Routing)
	}

	records, err := h.records.ListByDeployment(ctx, "d1")
	if err != nil {
		t.Fatalf("ListByDeployment: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 rollout records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.StepIndex != i {
			t.Errorf("records[%d].StepIndex = %d, want %d", i, rec.StepIndex, i)
		}
		if rec.State != domain.TrafficStateApplied {
			t.Errorf("records[%d].State = %q, want %q", i, rec.State, domain.TrafficStateApplied)
		}
		if len(rec.Routing) != 2 {
			t.Fatalf("records[%d].Routing: got %d entries, want 2", i, len(rec.Routing))
		}
	}
	first, last := records[0], records[len(records)-1]
	if first.Routing[1].Weight != 0.2 {
		t.Errorf("first step candidate weight = %v, want 0.2", first.Routing[1].Weight)
	}
	if last.Routing[0].Weight != 0 || last.Routing[1].Weight != 1.0 {
		t.Errorf("last step routing = %+v, want 0/1", last.Routing)
	}
}

func TestCreateDeployment_UnknownEndpoint(t *testing.T) {
	h := setup(t)

	_, err := h.deployments.Create(context.Background(), application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "missing",
		Variants: []domain.VariantDescriptor{variant("ranker-v1", 1.0)},
		Strategy: domain.StrategySpec{Type: domain.StrategySingleModel},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCreateDeployment_InvalidVariantsRejectedBeforeStore(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	_, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{
			variant("ranker-v1", 1.0),
			variant("ranker-v1", 0),
		},
		Strategy: domain.StrategySpec{Type: domain.StrategyBlueGreen},
	})
	if !errors.Is(err, domain.ErrDuplicateVariantName) {
		t.Fatalf("expected ErrDuplicateVariantName, got: %v", err)
	}

	_, err = h.deployments.Get(ctx, "d1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deployment should not be stored, Get returned: %v", err)
	}
}

func TestCreateDeployment_WrongVariantCountFailsRollout(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	_, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{
			variant("ranker-a", 0.5),
			variant("ranker-b", 0.3),
			variant("ranker-c", 0.2),
		},
		Strategy: domain.StrategySpec{Type: domain.StrategyBlueGreen},
	})
	if !errors.Is(err, domain.ErrWrongVariantCount) {
		t.Fatalf("expected ErrWrongVariantCount, got: %v", err)
	}

	// The cardinality check runs inside the rollout, after the deployment
	// is stored. Nothing rolls it back.
	dep, err := h.deployments.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dep.State != domain.DeploymentStatePending {
		t.Errorf("State = %q, want %q", dep.State, domain.DeploymentStatePending)
	}
}

func TestCreateDeployment_MissingID(t *testing.T) {
	h := setup(t)
	_, err := h.deployments.Create(context.Background(), application.CreateDeploymentInput{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestDeleteDeployment_RemovesRecords(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	registerEndpoint(t, h, "ranker-prod")

	_, err := h.deployments.Create(ctx, application.CreateDeploymentInput{
		ID:       "d1",
		Endpoint: "ranker-prod",
		Variants: []domain.VariantDescriptor{variant("ranker-v1", 1.0)},
		Strategy: domain.StrategySpec{Type: domain.StrategySingleModel},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := h.deployments.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	records, _ := h.records.ListByDeployment(ctx, "d1")
	if len(records) != 0 {
		t.Fatalf("expected 0 rollout records after delete, got %d", len(records))
	}

	_, err = h.deployments.Get(ctx, "d1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}

func TestEndpointService_RequiresName(t *testing.T) {
	h := setup(t)
	err := h.endpoints.Register(context.Background(), domain.EndpointInfo{Environment: "prod"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got: %v", err)
	}
}

// --- helpers ---

func registerEndpoint(t *testing.T, h testHarness, names ...string) {
	t.Helper()
	for _, name := range names {
		must(t, h.endpoints.Register(context.Background(), domain.EndpointInfo{
			Name:        domain.EndpointName(name),
			Environment: "prod",
		}))
	}
}

func variant(name string, weight float64) domain.VariantDescriptor {
	return domain.VariantDescriptor{
		Name:          domain.VariantName(name),
		Artifact:      domain.ArtifactLocation{Bucket: "model-artifacts", Key: name + "/model.tar.gz"},
		Image:         "registry.example.com/serving:1.4.0",
		InstanceType:  "gpu-a10-xlarge",
		InstanceCount: 1,
		Weight:        weight,
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
