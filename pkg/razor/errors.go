package razor

import (
	"errors"
	"fmt"
)

// ErrMissingDependency is returned when a phase runs before the artifact it
// needs was published. It means the engine is misconfigured.
var ErrMissingDependency = errors.New("missing phase dependency")

// DependencyError names the phase and the artifact it could not find.
type DependencyError struct {
	Phase    string
	Artifact string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("phase %s requires %s", e.Phase, e.Artifact)
}

func (e *DependencyError) Unwrap() error {
	return ErrMissingDependency
}

func missing(phase, artifact string) error {
	return &DependencyError{Phase: phase, Artifact: artifact}
}
