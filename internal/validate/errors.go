package validate

import (
	"strings"
)

// Errors lists every failed constraint of a validated struct, one message per field.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// WithNamespace prefixes every message with the namespace segments joined by ":".
func (e Errors) WithNamespace(namespace ...string) Errors {
	prefix := strings.Join(namespace, ":")
	errs := make(Errors, len(e))
	for i, msg := range e {
		errs[i] = prefix + ":" + msg
	}
	return errs
}
