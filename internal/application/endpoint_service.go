package application

import (
	"context"
	"fmt"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// EndpointService manages endpoint registration and queries.
type EndpointService struct {
	Endpoints domain.EndpointRepository
}

func (s *EndpointService) Register(ctx context.Context, endpoint domain.EndpointInfo) error {
	if endpoint.Name == "" {
		return fmt.Errorf("%w: endpoint name is required", domain.ErrInvalidArgument)
	}
	return s.Endpoints.Create(ctx, endpoint)
}

func (s *EndpointService) Get(ctx context.Context, name domain.EndpointName) (domain.EndpointInfo, error) {
	return s.Endpoints.Get(ctx, name)
}

func (s *EndpointService) List(ctx context.Context) ([]domain.EndpointInfo, error) {
	return s.Endpoints.List(ctx)
}

func (s *EndpointService) Deregister(ctx context.Context, name domain.EndpointName) error {
	return s.Endpoints.Delete(ctx, name)
}
