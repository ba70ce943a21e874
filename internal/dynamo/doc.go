// Package dynamo provides the core value types shared by the derivation,
// the integrator and the consumers of a double pendulum run.
//
//   - [Params]: masses and gravitational acceleration
//   - [State]: the 4-vector (θ1, θ1̇, θ2, θ2̇)
//   - [Accelerations]: the pair of closed-form angular accelerations
//   - [Trajectory]: uniformly sampled (t, State) series
//
// # Example
//
//	acc, _ := physics.Derive()
//	traj, err := sim.Run(ctx, acc, dynamo.DefaultParams(), x0, sim.DefaultConfig())
//
// All types are plain values. Accelerations hold no mutable state and may
// be shared across goroutines; a Trajectory is never mutated after
// [sim.Run] returns it.
package dynamo
