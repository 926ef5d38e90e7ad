// Package analysis provides post-run diagnostics for trajectories:
// closed-form ballistic references, spectral spin estimates, and phase
// portrait extraction.
package analysis
