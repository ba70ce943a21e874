// Package analysis characterises finished trajectories.
//
//   - [Divergence], [FiniteTimeLyapunov]: separation of two nearby runs
//   - [Period]: oscillation period from upward zero crossings
//   - [PowerSpectrum], [DominantFrequency]: frequency content of a series
//   - [NewPhasePortrait], [NewPoincareSection]: 2D projections of state space
//
// # Chaos Detection
//
// Two runs whose initial states differ by a tiny perturbation separate
// exponentially when the motion is chaotic:
//
//	lambda, err := analysis.FiniteTimeLyapunov(base, perturbed)
//	if lambda > 0 {
//	    // nearby trajectories diverge
//	}
package analysis
