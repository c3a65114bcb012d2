package options

import "errors"

// Configuration errors. Callers match them with errors.Is.
var (
	ErrUnknownType        = errors.New("unknown option type")
	ErrUnknownTier        = errors.New("unknown option tier")
	ErrDanglingDependency = errors.New("dependency on unknown option")
	ErrMissingChoices     = errors.New("dropdown option has no choices")
	ErrDuplicateOption    = errors.New("duplicate option id")
	ErrDependencyCycle    = errors.New("dependency cycle")
	ErrDependencyValue    = errors.New("dependency value the target option cannot hold")
)
