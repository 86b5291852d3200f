package model

import "errors"

// MessageClass categorizes user-facing outcome messages
type MessageClass string

const (
	MessageError   MessageClass = "error"
	MessageSuccess MessageClass = "success"
	MessageInfo    MessageClass = "info"
	MessageNeutral MessageClass = "neutral"
)

// ClassForError maps an outcome error to exactly one message class.
// Every operation resolves to accepted, explicitly rejected, or explicitly
// errored; no outcome is ambiguous.
func ClassForError(err error) MessageClass {
	switch {
	case err == nil:
		return MessageSuccess
	case errors.Is(err, ErrAlreadyRegistered):
		return MessageInfo
	default:
		return MessageError
	}
}
