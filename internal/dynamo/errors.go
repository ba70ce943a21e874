package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for derivation and integration.
var (
	// ErrConfiguration indicates invalid physical parameters or run settings.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrDerivation indicates the equations of motion have no unique solution.
	ErrDerivation = errors.New("dynamo: equations of motion not uniquely solvable")

	// ErrIntegration indicates the solver could not advance the state.
	ErrIntegration = errors.New("dynamo: integration failed")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepBudget indicates the solver exceeded its step budget.
	ErrStepBudget = errors.New("dynamo: step budget exhausted")

	// ErrNonFinite indicates the state or its derivative became NaN or Inf.
	ErrNonFinite = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ConfigError reports a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// DerivationError is returned when the Euler-Lagrange system cannot be
// solved uniquely for the two accelerations.
type DerivationError struct {
	Reason string
}

func (e *DerivationError) Error() string {
	return "dynamo: derivation failed: " + e.Reason
}

func (e *DerivationError) Is(target error) bool { return target == ErrDerivation }

// IntegrationError wraps a solver failure with the furthest point reached.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("dynamo: integration failed at step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}

func (e *IntegrationError) Is(target error) bool { return target == ErrIntegration }
