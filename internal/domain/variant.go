package domain

import "fmt"

// VariantName identifies a model variant within a variant set. Names are
// case-sensitive: "ModelA" and "modela" are distinct variants.
type VariantName string

// ArtifactLocation is an opaque two-part reference to a packaged model
// artifact in object storage. The platform never fetches or inspects the
// artifact; both parts must be non-empty for the location to be usable.
type ArtifactLocation struct {
	Bucket string
	Key    string
}

// IsZero reports whether either part of the location is missing.
func (l ArtifactLocation) IsZero() bool {
	return l.Bucket == "" || l.Key == ""
}

// VariantDescriptor is the caller-provided description of one model
// variant: which artifact to serve, in which container, on what capacity,
// and with what initial traffic weight. Descriptors are raw input;
// [BuildVariantSet] turns them into validated variants.
type VariantDescriptor struct {
	Name          VariantName
	Artifact      ArtifactLocation
	Image         string
	InstanceType  string
	InstanceCount int
	Weight        float64
}

// Variant is a descriptor that passed variant set validation.
type Variant VariantDescriptor

// VariantSet is an ordered collection of validated variants. Insertion
// order is preserved and observable: strategies and plans list variants in
// the order the descriptors were supplied. A set is immutable once built
// and is never empty.
type VariantSet struct {
	variants []Variant
	index    map[VariantName]int
}

// BuildVariantSet validates descriptors and assembles them into a set.
// Validation is pure and strict: the first violation is reported as a
// wrapped sentinel error, and input is never reordered, deduplicated, or
// otherwise repaired.
func BuildVariantSet(descs []VariantDescriptor) (VariantSet, error) {
	if len(descs) == 0 {
		return VariantSet{}, ErrEmptyVariantSet
	}

	variants := make([]Variant, 0, len(descs))
	index := make(map[VariantName]int, len(descs))
	for i, d := range descs {
		if d.Name == "" {
			return VariantSet{}, fmt.Errorf("%w: variant at position %d has no name", ErrInvalidArgument, i)
		}
		if prev, ok := index[d.Name]; ok {
			return VariantSet{}, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateVariantName, d.Name, prev, i)
		}
		if d.Artifact.IsZero() {
			return VariantSet{}, fmt.Errorf("%w: variant %q has no artifact location", ErrMissingArtifact, d.Name)
		}
		if d.Image == "" {
			return VariantSet{}, fmt.Errorf("%w: variant %q has no container image", ErrMissingArtifact, d.Name)
		}
		if d.InstanceCount < 1 {
			return VariantSet{}, fmt.Errorf("%w: variant %q has instance count %d", ErrInvalidInstanceCount, d.Name, d.InstanceCount)
		}
		if d.Weight < 0 {
			return VariantSet{}, fmt.Errorf("%w: variant %q has weight %v", ErrInvalidWeight, d.Name, d.Weight)
		}
		index[d.Name] = i
		variants = append(variants, Variant(d))
	}

	return VariantSet{variants: variants, index: index}, nil
}

// Len returns the number of variants in the set.
func (s VariantSet) Len() int { return len(s.variants) }

// At returns the variant at position i in insertion order.
func (s VariantSet) At(i int) Variant { return s.variants[i] }

// Variants returns the variants in insertion order. The returned slice is
// a copy; mutating it does not affect the set.
func (s VariantSet) Variants() []Variant {
	out := make([]Variant, len(s.variants))
	copy(out, s.variants)
	return out
}

// Names returns the variant names in insertion order.
func (s VariantSet) Names() []VariantName {
	out := make([]VariantName, len(s.variants))
	for i, v := range s.variants {
		out[i] = v.Name
	}
	return out
}

// Get returns the variant with the given name, if present.
func (s VariantSet) Get(name VariantName) (Variant, bool) {
	i, ok := s.index[name]
	if !ok {
		return Variant{}, false
	}
	return s.variants[i], true
}
