// Package physics derives and evaluates the equations of motion of the
// planar double pendulum.
//
// [Derive] builds the two angular accelerations from the Lagrangian
// L = T - V of two point masses on rigid rods: the kinetic energy is kept
// as the quadratic form ½ θ̇ᵀ M(θ) θ̇, the Euler-Lagrange equations give the
// linear system M(θ) θ̈ = r(θ, θ̇), and that system is solved in closed form
// by Cramer's rule. The mass coefficients stay symbolic (linear in m1, m2)
// so uniqueness of the solution can be checked once, before any number is
// evaluated.
//
// [ClosedForm] is the textbook result for unit rods and is used to
// cross-check the derivation.
//
// # Energy Conservation
//
// The system has no dissipation, so [DoublePendulum.Energy] is a
// first integral and the standard check on integrator accuracy:
//
//	dp := physics.NewDoublePendulum(acc, params)
//	e0 := dp.Energy(x0)
package physics
