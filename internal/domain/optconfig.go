package domain

import "errors"

var ErrOptimizationConfigurationNotFound = errors.New("optimization configuration not found")

// OptimizationConfiguration is a named set of objective weights and solver
// limits. Exactly one configuration may be the default at a time.
type OptimizationConfiguration struct {
	ID                string
	Name              string
	WeightFairness    float64
	WeightPreferences float64
	WeightCost        float64
	WeightCoverage    float64
	MaxRuntimeSeconds int
	MIPGap            float64
	IsDefault         bool
}

// DefaultOptimizationConfiguration mirrors the factory defaults the original
// system seeds on first run. WeightCost is zeroed per the resolved open
// question on cost weighting — see DESIGN.md.
func DefaultOptimizationConfiguration() OptimizationConfiguration {
	return OptimizationConfiguration{
		Name:              "default",
		WeightFairness:    0.3,
		WeightPreferences: 0.4,
		WeightCost:        0,
		WeightCoverage:    0.2,
		MaxRuntimeSeconds: 300,
		MIPGap:            0.01,
		IsDefault:         true,
	}
}
