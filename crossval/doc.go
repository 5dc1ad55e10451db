// Package crossval reconciles independent observations of one pricing fact.
//
// Structural agreement is computed from pairwise flags (same module,
// price within tolerance, same country); when a model analyst is
// available its semantic verdict is blended in by configurable weights.
// A fact is validated only when the combined confidence clears the
// threshold AND enough distinct sources contributed — one source is
// never enough, however confident it is.
package crossval
