package log

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// errorEvent attaches err to e together with the stack trace recorded by
// cockroachdb/errors. Errors without a recorded stack get no trace field.
func errorEvent(e *zerolog.Event, err error) *zerolog.Event {
	e = e.Str(ErrorKey, err.Error())
	if st := extractStacktrace(err); st != "" {
		e = e.Str(StacktraceKey, st)
	}
	if m, ok := unwrapMarshaler(err); ok {
		e = e.EmbedObject(m)
	}
	return e
}

// extractStacktrace returns the safe details of the innermost stack carried
// by err, falling back to the verbose %+v rendering.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 && safeDetails[0] != "" {
		return safeDetails[0]
	}
	verbose := fmt.Sprintf("%+v", err)
	if verbose == err.Error() || !strings.Contains(verbose, "\n") {
		return ""
	}
	return verbose
}

// unwrapMarshaler finds the first error in the chain that knows how to add
// its own structured fields, e.g. *ConvergenceWarning or *DimensionError.
func unwrapMarshaler(err error) (zerolog.LogObjectMarshaler, bool) {
	for err != nil {
		if m, ok := err.(zerolog.LogObjectMarshaler); ok {
			return m, true
		}
		err = errors.UnwrapOnce(err)
	}
	return nil, false
}
