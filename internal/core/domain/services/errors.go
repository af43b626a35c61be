package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
)

var (
	ErrTransitionRejected = errors.New("transition rejected")
	ErrNotAuthorized      = errors.New("not authorized")
)

// TransitionRejectedError reports an operation invoked from a state that does
// not allow it. Nothing has been changed when it is returned.
type TransitionRejectedError struct {
	Operation Operation
	From      string
	Cause     error
}

func NewTransitionRejectedError(op Operation, from fmt.Stringer, cause error) *TransitionRejectedError {
	return &TransitionRejectedError{Operation: op, From: from.String(), Cause: cause}
}

func (e *TransitionRejectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: cannot %s from %s (cause: %v)", ErrTransitionRejected, e.Operation, e.From, e.Cause)
	}
	return fmt.Sprintf("%s: cannot %s from %s", ErrTransitionRejected, e.Operation, e.From)
}

func (e *TransitionRejectedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTransitionRejected, e.Cause}
	}
	return []error{ErrTransitionRejected}
}

// NotAuthorizedError reports an actor lacking the role or the ownership an
// operation requires.
type NotAuthorizedError struct {
	ActorID   kernel.UUID
	Role      actor.Role
	Operation Operation
	Reason    string
}

func NewNotAuthorizedError(a *actor.Actor, op Operation, reason string) *NotAuthorizedError {
	return &NotAuthorizedError{ActorID: a.ID(), Role: a.Role(), Operation: op, Reason: reason}
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("%s: %s %s cannot %s: %s", ErrNotAuthorized, e.Role, e.ActorID, e.Operation, e.Reason)
}

func (e *NotAuthorizedError) Unwrap() error {
	return ErrNotAuthorized
}
