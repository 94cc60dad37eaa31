package domain

// RoutingEntry assigns a traffic weight to one variant. Weights are
// literal: the platform never normalizes them, so a table summing to 1.0
// and one summing to 100 are both valid and mean exactly what the caller
// wrote. Consumers that need proportions divide by the table total.
type RoutingEntry struct {
	Variant VariantName
	Weight  float64
}

// ServingPlan is the complete serving description for an endpoint: the
// validated variants (capacity sizing per variant) plus the routing table,
// one entry per routed variant in variant insertion order. Plans are
// values; strategies allocate a fresh plan on every call and nothing
// mutates a plan after it is produced.
type ServingPlan struct {
	Variants []Variant
	Routing  []RoutingEntry
}

// TotalWeight sums the routing weights.
func (p ServingPlan) TotalWeight() float64 {
	var total float64
	for _, e := range p.Routing {
		total += e.Weight
	}
	return total
}

// WeightOf returns the routing weight assigned to the named variant.
func (p ServingPlan) WeightOf(name VariantName) (float64, bool) {
	for _, e := range p.Routing {
		if e.Variant == name {
			return e.Weight, true
		}
	}
	return 0, false
}
