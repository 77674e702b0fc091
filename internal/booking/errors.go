// Package booking implements the reservation conflict-resolution engine and
// lifecycle manager.  All business-rule failures are returned as *Error
// values carrying an HTTP-equivalent status and a human-readable reason so
// the HTTP layer can surface them verbatim.
package booking

import "fmt"

// Error is a typed business failure.  Status is the HTTP status the
// handler should respond with: 400 for rule violations and state errors,
// 404 for missing entities.  Message names the specific rule, date and
// clan that blocked the request; there is no generic "booking failed".
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// reject builds a 400 rule-violation error.
func reject(format string, args ...interface{}) *Error {
	return &Error{Status: 400, Message: fmt.Sprintf(format, args...)}
}

// notFound builds a 404 missing-entity error.
func notFound(format string, args ...interface{}) *Error {
	return &Error{Status: 404, Message: fmt.Sprintf(format, args...)}
}
