// Package constraints provides agents that enforce geometric relations by
// applying velocity-level impulses.
//
// Soft constraints follow the Baumgarte formulation. For a period T and
// damping ratio ζ over an effective mass m:
//
//	k = 4·m·π²/T²    c = 4·m·π·ζ/T
//	γ = 1/(c + dt·k)  β = dt·k/(c + dt·k)
//
// and T = 0 is the rigid limit γ = 0, β = 1. For a scalar constraint f with
// direction J the impulse is J·dt·λ where
//
//	λ = -(J·v + β/dt·f) / (γ + dt·|J|²/m)
//
// Contact constraints ([Wall], [Walls], [Collision]) emit event.PreCollision,
// event.Collision and event.PostCollision with a [CollisionData] payload.
package constraints
