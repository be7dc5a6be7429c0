package singleton

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNilConstructor is returned (or raised, for Get) when a holder has to
	// construct its instance but was given a nil constructor.
	ErrNilConstructor = errors.New("singleton: nil constructor")

	// ErrNilInstance is returned when a constructor reports success but
	// returns a nil pointer. A nil pointer cannot be published, so the holder
	// stays unset.
	ErrNilInstance = errors.New("singleton: constructor returned nil instance")

	// ErrConstructorPanic matches any ConstructorPanicError via errors.Is.
	ErrConstructorPanic = errors.New("singleton: constructor panicked")
)

// ConstructorPanicError records a panic recovered from a constructor.
//
// The holder converts the panic so the lock is released and the instance
// stays unset; a later call may retry construction.
type ConstructorPanicError struct {
	// Holder is the name of the holder whose constructor panicked.
	Holder string

	// Value is the value passed to panic.
	Value any
}

// Error implements the error interface.
func (e ConstructorPanicError) Error() string {
	// Example: singleton: constructor for "thread-safe" panicked: boom
	return "singleton: constructor for " + strconv.Quote(e.Holder) + " panicked: " + fmt.Sprint(e.Value)
}

// Is reports whether target is ErrConstructorPanic.
func (e ConstructorPanicError) Is(target error) bool { return target == ErrConstructorPanic }

// ConstructionError is returned when a construction attempt fails.
//
// Err is the constructor's own error, ErrNilInstance, or a ConstructorPanicError.
type ConstructionError struct {
	// Holder is the name of the holder that attempted construction.
	Holder string

	// Attempt is the 1-based construction attempt number for the holder.
	Attempt int64

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e ConstructionError) Error() string {
	// Example: singleton: construction of "thread-safe" failed (attempt 2): dial refused
	msg := "singleton: construction of " + strconv.Quote(e.Holder) +
		" failed (attempt " + strconv.FormatInt(e.Attempt, 10) + ")"
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause so errors.Is and errors.As see through it.
func (e ConstructionError) Unwrap() error { return e.Err }
