package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource with the same identity
	// already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument indicates that a caller-provided value violates
	// a precondition.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Variant set construction errors. BuildVariantSet reports the first
// violation it encounters and never repairs input.
var (
	// ErrEmptyVariantSet indicates that a variant set was built from zero
	// descriptors.
	ErrEmptyVariantSet = errors.New("variant set is empty")

	// ErrDuplicateVariantName indicates that two descriptors share a name.
	// Names are case-sensitive; the wrapped message carries the name and
	// both positions.
	ErrDuplicateVariantName = errors.New("duplicate variant name")

	// ErrInvalidInstanceCount indicates an instance count below one.
	ErrInvalidInstanceCount = errors.New("invalid instance count")

	// ErrInvalidWeight indicates a negative traffic weight. Zero is valid.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrMissingArtifact indicates a descriptor without a model artifact
	// location or without a container image.
	ErrMissingArtifact = errors.New("missing artifact")
)

// Strategy cardinality errors.
var (
	// ErrTooManyVariants indicates that a single-model plan was requested
	// for a set with more than one variant.
	ErrTooManyVariants = errors.New("too many variants")

	// ErrWrongVariantCount indicates that a blue/green plan was requested
	// for a set whose size is not exactly two.
	ErrWrongVariantCount = errors.New("wrong variant count")
)

// Traffic shift planning errors.
var (
	// ErrInvalidStepSize indicates a step size that is not positive or
	// exceeds the total traffic weight.
	ErrInvalidStepSize = errors.New("invalid step size")

	// ErrInvalidCanarySize indicates a canary size that is negative or
	// exceeds the total traffic weight.
	ErrInvalidCanarySize = errors.New("invalid canary size")

	// ErrInvalidTotal indicates that the combined existing and candidate
	// weight is not positive, leaving nothing to shift.
	ErrInvalidTotal = errors.New("invalid total weight")
)
