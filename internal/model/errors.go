package model

import (
	"errors"
	"fmt"
)

// ErrorKind стабильный машиночитаемый код ошибки
type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindUnauthorized          ErrorKind = "unauthorized"
	KindInvalidInput          ErrorKind = "invalid_input"
	KindInvalidTransition     ErrorKind = "invalid_transition"
	KindInvalidState          ErrorKind = "invalid_state"
	KindConflict              ErrorKind = "conflict"
	KindAlreadyResolved       ErrorKind = "already_resolved"
	KindSlotNoLongerAvailable ErrorKind = "slot_no_longer_available"
	KindInternal              ErrorKind = "internal"
)

// Error типизированная ошибка домена. errors.Is сравнивает по Kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Базовые ошибки для сравнения через errors.Is
var (
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized          = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrInvalidState          = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrConflict              = &Error{Kind: KindConflict, Message: "concurrent modification"}
	ErrAlreadyResolved       = &Error{Kind: KindAlreadyResolved, Message: "exchange request already resolved"}
	ErrSlotNoLongerAvailable = &Error{Kind: KindSlotNoLongerAvailable, Message: "slot is no longer available"}
)

// NewError создаёт ошибку заданного вида с конкретным сообщением
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError оборачивает причину в ошибку заданного вида
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf возвращает вид ошибки; всё, что не является *Error, считается internal
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
