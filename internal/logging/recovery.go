package logging

import (
	"fmt"
	"runtime/debug"
)

// PanicError is returned by WrapError when fn panicked.
type PanicError struct {
	Component string
	Value     interface{}
	Stack     string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Component, e.Value)
}

// RecoveryHandler turns panics of one component into logged errors.
type RecoveryHandler struct {
	Component string
	// OnPanic runs after the panic is logged, before WrapError returns.
	OnPanic func(value interface{}, stack string)
}

// NewRecoveryHandler creates a recovery handler for a component.
func NewRecoveryHandler(component string) *RecoveryHandler {
	return &RecoveryHandler{Component: component}
}

// WrapError runs fn and converts a panic into a *PanicError.
func (r *RecoveryHandler) WrapError(fn func() error) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		perr := &PanicError{
			Component: r.Component,
			Value:     rec,
			Stack:     string(debug.Stack()),
		}

		New(r.Component).Error("panic_recovered", map[string]interface{}{
			"stack": perr.Stack,
		}, fmt.Errorf("%v", rec))

		if r.OnPanic != nil {
			r.OnPanic(rec, perr.Stack)
		}
		err = perr
	}()
	return fn()
}
