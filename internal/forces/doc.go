// Package forces provides agents that add into body force and torque
// accumulators without touching positions or velocities.
//
//   - [Spring]: Hookean or FENE spring to an anchor or a source body
//   - [RotationalSpring]: the same law on orientation, producing torque
//   - [Repulsion]: pairwise decay from an anchor or source, negative strength attracts
//   - [VectorField]: constant, linear, radial and attractor fields
//   - [Drag], [RotationalDrag]: velocity-proportional damping
//
// The engine calls ApplyForce exactly once per step for each attached force.
// Calling it twice in one frame double counts.
package forces
