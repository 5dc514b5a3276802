package monitor

import "fmt"

// FieldError reports a required field that is missing or holds an unusable value.
type FieldError struct {
	Field   string
	Invalid bool
}

func (e *FieldError) Error() string {
	if e.Invalid {
		return "invalid " + e.Field
	}
	return "missing " + e.Field
}

// TypeError reports a monitor type that uptui cannot probe.
type TypeError struct {
	Type string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Type)
}
