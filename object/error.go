package object

import (
	"bytes"
	"fmt"

	"github.com/podhmo/daro/token"
)

// CallFrame represents a single frame in the call stack.
type CallFrame struct {
	Pos      token.Position
	Function string
}

func (cf *CallFrame) String() string {
	name := cf.Function
	if name == "" {
		name = "<script>"
	}
	return fmt.Sprintf("\t%s:\tin %s", cf.Pos, name)
}

// Error is the single runtime error kind. Cause holds an underlying host
// error, if any.
type Error struct {
	Pos       token.Position
	Message   string
	CallStack []*CallFrame
	Cause     error
}

// Type returns the type of the Error object.
func (e *Error) Type() ObjectType { return ERROR_OBJ }

// Inspect returns a formatted string representation of the error, including the call stack.
func (e *Error) Inspect() string {
	var out bytes.Buffer
	out.WriteString("runtime error: ")
	out.WriteString(e.Message)
	if e.Pos.IsValid() {
		fmt.Fprintf(&out, "\n\t%s", e.Pos)
	}
	out.WriteString("\n")
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		out.WriteString(e.CallStack[i].String())
		out.WriteString("\n")
	}
	return out.String()
}

// Error makes it a valid Go error.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Unwrap returns the host error that caused this one.
func (e *Error) Unwrap() error { return e.Cause }

// Position returns the source range the error is attached to.
func (e *Error) Position() token.Position { return e.Pos }

// NewError creates an error without call stack information.
func NewError(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
