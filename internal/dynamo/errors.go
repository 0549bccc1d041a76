package dynamo

import "github.com/pkg/errors"

// Domain errors for engine and agent operations.
var (
	// ErrInvalidOption indicates an agent or engine option outside its valid range.
	ErrInvalidOption = errors.New("dynamo: invalid option")

	// ErrInvalidMass indicates a zero, negative or NaN mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidAgent indicates a value that is neither a force nor a constraint.
	ErrInvalidAgent = errors.New("dynamo: agent must be exactly one of force or constraint")

	// ErrAgentNotFound indicates an agent id that is not attached.
	ErrAgentNotFound = errors.New("dynamo: agent not attached")

	// ErrBodyNotFound indicates a body the engine does not manage.
	ErrBodyNotFound = errors.New("dynamo: body not managed by engine")

	// ErrUnknownKind indicates a scene entry naming an unknown body or agent kind.
	ErrUnknownKind = errors.New("dynamo: unknown kind")
)

// OptionError wraps ErrInvalidOption with the offending option name.
type OptionError struct {
	Agent  string
	Option string
	Value  float64
}

func (e *OptionError) Error() string {
	return errors.Wrapf(ErrInvalidOption, "%s.%s = %g", e.Agent, e.Option, e.Value).Error()
}

func (e *OptionError) Unwrap() error {
	return ErrInvalidOption
}

// InvalidOption returns an *OptionError for agent/option/value.
func InvalidOption(agent, option string, value float64) error {
	return &OptionError{Agent: agent, Option: option, Value: value}
}
