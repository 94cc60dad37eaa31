// Package config parses deployment and endpoint documents. Documents are
// YAML; since YAML is a superset of JSON, JSON documents parse too.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Carma-tech/sagemaker-deployment-construct/internal/application"
	"github.com/Carma-tech/sagemaker-deployment-construct/internal/domain"
)

// Traffic shift profile names accepted in deployment documents.
const (
	ProfileAllAtOnce = "all-at-once"
	ProfileCanaryTen = "canary-10"
	ProfileLinear    = "linear-20"
)

// EndpointDoc is the document form of an endpoint registration.
type EndpointDoc struct {
	Name        string            `yaml:"name"`
	Environment string            `yaml:"environment,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Properties  map[string]string `yaml:"properties,omitempty"`
}

// VariantDoc is the document form of a variant descriptor.
type VariantDoc struct {
	Name           string  `yaml:"name"`
	ArtifactBucket string  `yaml:"artifactBucket"`
	ArtifactKey    string  `yaml:"artifactKey"`
	Image          string  `yaml:"image"`
	InstanceType   string  `yaml:"instanceType"`
	InstanceCount  int     `yaml:"instanceCount"`
	Weight         float64 `yaml:"weight,omitempty"`
}

// TrafficShiftDoc selects a shift profile and optionally overrides its
// sizes. BakeTime is a duration string such as "30s" or "20m".
type TrafficShiftDoc struct {
	Profile    string  `yaml:"profile,omitempty"`
	CanarySize float64 `yaml:"canarySize,omitempty"`
	StepSize   float64 `yaml:"stepSize,omitempty"`
	BakeTime   string  `yaml:"bakeTime,omitempty"`
}

// DeploymentDoc is the document form of a deployment request.
type DeploymentDoc struct {
	ID           string           `yaml:"id"`
	Endpoint     string           `yaml:"endpoint"`
	Strategy     string           `yaml:"strategy"`
	TrafficShift *TrafficShiftDoc `yaml:"trafficShift,omitempty"`
	Variants     []VariantDoc     `yaml:"variants"`
}

// ParseDeployment parses a deployment document into service input.
func ParseDeployment(data []byte) (application.CreateDeploymentInput, error) {
	var doc DeploymentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return application.CreateDeploymentInput{}, fmt.Errorf("parse deployment document: %w", err)
	}
	return doc.ToInput()
}

// ToInput validates the document and converts it to service input.
func (doc DeploymentDoc) ToInput() (application.CreateDeploymentInput, error) {
	var in application.CreateDeploymentInput
	if doc.ID == "" {
		return in, fmt.Errorf("%w: deployment id is required", domain.ErrInvalidArgument)
	}
	if doc.Endpoint == "" {
		return in, fmt.Errorf("%w: deployment endpoint is required", domain.ErrInvalidArgument)
	}
	in.ID = domain.DeploymentID(doc.ID)
	in.Endpoint = domain.EndpointName(doc.Endpoint)

	switch doc.Strategy {
	case string(domain.StrategySingleModel):
		in.Strategy.Type = domain.StrategySingleModel
	case string(domain.StrategyMultiVariant):
		in.Strategy.Type = domain.StrategyMultiVariant
	case string(domain.StrategyBlueGreen):
		in.Strategy.Type = domain.StrategyBlueGreen
	default:
		return in, fmt.Errorf("%w: unknown serving strategy %q", domain.ErrInvalidArgument, doc.Strategy)
	}

	if doc.TrafficShift != nil {
		spec, err := doc.TrafficShift.ToSpec()
		if err != nil {
			return in, err
		}
		in.Strategy.TrafficShift = &spec
	}

	for _, v := range doc.Variants {
		in.Variants = append(in.Variants, domain.VariantDescriptor{
			Name:          domain.VariantName(v.Name),
			Artifact:      domain.ArtifactLocation{Bucket: v.ArtifactBucket, Key: v.ArtifactKey},
			Image:         v.Image,
			InstanceType:  v.InstanceType,
			InstanceCount: v.InstanceCount,
			Weight:        v.Weight,
		})
	}
	return in, nil
}

// ToSpec resolves the profile to a shift spec. Explicit sizes override the
// profile's values; an absent profile starts from the default.
func (doc *TrafficShiftDoc) ToSpec() (domain.TrafficShiftSpec, error) {
	var spec domain.TrafficShiftSpec
	switch doc.Profile {
	case "":
		spec = domain.DefaultTrafficShift()
	case ProfileAllAtOnce:
		spec = domain.AllAtOnceShift()
	case ProfileCanaryTen:
		spec = domain.CanaryTenPercentShift()
	case ProfileLinear:
		spec = domain.LinearTwentyPercentShift()
	default:
		return spec, fmt.Errorf("%w: unknown traffic shift profile %q", domain.ErrInvalidArgument, doc.Profile)
	}
	if doc.CanarySize != 0 {
		spec.CanarySize = doc.CanarySize
	}
	if doc.StepSize != 0 {
		spec.StepSize = doc.StepSize
	}
	if doc.BakeTime != "" {
		bake, err := time.ParseDuration(doc.BakeTime)
		if err != nil {
			return spec, fmt.Errorf("parse bakeTime: %w", err)
		}
		spec.BakeTime = bake
	}
	return spec, nil
}

// ParseEndpoint parses an endpoint document.
func ParseEndpoint(data []byte) (domain.EndpointInfo, error) {
	var doc EndpointDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.EndpointInfo{}, fmt.Errorf("parse endpoint document: %w", err)
	}
	if doc.Name == "" {
		return domain.EndpointInfo{}, fmt.Errorf("%w: endpoint name is required", domain.ErrInvalidArgument)
	}
	return domain.EndpointInfo{
		Name:        domain.EndpointName(doc.Name),
		Environment: doc.Environment,
		Labels:      doc.Labels,
		Properties:  doc.Properties,
	}, nil
}
