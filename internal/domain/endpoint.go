package domain

// EndpointName identifies a serving endpoint.
type EndpointName string

// EndpointInfo describes a registered serving endpoint: the live surface
// a deployment's variants serve traffic from. Properties carry site facts
// such as region or capacity class and are passed through to traffic
// control untouched. Planning never reads process environment or any
// other ambient source; endpoints are the only channel for site
// configuration.
type EndpointInfo struct {
	Name        EndpointName
	Environment string
	Labels      map[string]string
	Properties  map[string]string
}
