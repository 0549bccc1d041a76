// Package body provides the simulated state carriers.
//
//   - [Particle]: point mass with position, velocity and a force accumulator
//   - [Body]: rigid body adding orientation, angular momentum, torque and an
//     inertia tensor
//   - [Rectangle], [Circle], [Sphere]: bodies whose inertia tensor follows
//     from their shape and mass
//
// Every type satisfies [Entity]; rigid ones also satisfy [Rigid]. The engine
// uses the [Rigid] capability to route bodies into its rigid-body passes.
//
// Accumulators use write-then-clear semantics: several ApplyForce calls in one
// frame sum, and the integrator clears them after consuming them.
package body
