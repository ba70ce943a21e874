// Package sim runs a double pendulum integration as one batch
// computation: validate the configuration, build the uniform output grid,
// integrate with an adaptive solver and hand back a complete
// [dynamo.Trajectory].
//
// A run never returns a partial trajectory. Independent runs may execute
// concurrently through [Sweep]; they share the derived accelerations
// read-only and nothing else.
package sim
