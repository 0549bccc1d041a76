// Package engine advances particles and rigid bodies under attached force and
// constraint agents.
//
// One call to [Engine.Integrate] runs the pipeline
//
//  1. forces, in attach order
//  2. linear velocity from the force accumulators
//  3. angular momentum from torques, then angular velocity
//  4. ConstraintSteps passes over the constraints in reverse attach order
//  5. orientation
//  6. position, followed by an event.Update from every body
//
// [Engine.Step] wraps Integrate for a frame driver: it measures the frame time
// from the engine clock, gates on sleep and emits event.Update on the engine.
// The engine is not safe for concurrent use.
package engine
