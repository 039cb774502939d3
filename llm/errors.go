package llm

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownModelError reports a display name with no registry entry.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model: %s", e.Name)
}

// TransportError wraps a failure of the remote completion call itself:
// authentication, network, quota, or validation rejections all surface
// through here.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion call for %s failed: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ComparisonError is returned when every model in a comparison call
// failed. Its message names each failed model with its error.
type ComparisonError struct {
	Failures map[string]error
}

func (e *ComparisonError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %v", name, e.Failures[name])
	}
	return "all models failed: " + strings.Join(parts, "; ")
}
