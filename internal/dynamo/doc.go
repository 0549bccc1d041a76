// Package dynamo holds the domain errors shared by every physim package.
//
// Errors are grouped by the taxonomy the engine uses:
//
//   - configuration errors ([ErrInvalidOption], [ErrInvalidMass], [ErrInvalidAgent])
//     fail fast at construction or SetOptions time
//   - missing references ([ErrAgentNotFound], [ErrBodyNotFound]) are returned
//     instead of silently touching the agent table
//
// Callers wrap them with github.com/pkg/errors and test with errors.Is.
package dynamo
