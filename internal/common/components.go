package common

const (
	ComponentCatalog = "catalog"
	ComponentBatch   = "batch"
	ComponentAPI     = "api"
	ComponentMetrics = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentCatalog: {},
	ComponentBatch:   {},
	ComponentAPI:     {},
	ComponentMetrics: {},
}
