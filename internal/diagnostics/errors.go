package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/func/internal/token"
)

type ErrorCode string

const (
	// Tokenise errors
	ErrL001 ErrorCode = "L001" // unexpected character
	ErrL002 ErrorCode = "L002" // unterminated string
	ErrL003 ErrorCode = "L003" // unterminated interpolation
	ErrL004 ErrorCode = "L004" // end of source after escape
	ErrL005 ErrorCode = "L005" // invalid escape

	// Parse errors
	ErrP001 ErrorCode = "P001" // expected construct mismatch
	ErrP002 ErrorCode = "P002" // nesting too deep

	// Analysis errors
	ErrA001 ErrorCode = "A001" // duplicate binding
	ErrA002 ErrorCode = "A002" // unbound name
	ErrA003 ErrorCode = "A003" // integer literal out of range

	// Type errors
	ErrT001 ErrorCode = "T001" // not callable
	ErrT002 ErrorCode = "T002" // argument mismatch
	ErrT003 ErrorCode = "T003" // condition mismatch
	ErrT004 ErrorCode = "T004" // branch mismatch
	ErrT005 ErrorCode = "T005" // undefined parameter
	ErrT006 ErrorCode = "T006" // reference outside an environment
	ErrT007 ErrorCode = "T007" // recursive reference

	// Compilation errors
	ErrC001 ErrorCode = "C001" // no main
	ErrC002 ErrorCode = "C002" // unsupported expression
	ErrC003 ErrorCode = "C003" // unsupported callable
	ErrC004 ErrorCode = "C004" // string interpolation
	ErrC005 ErrorCode = "C005" // undefined binding
	ErrC006 ErrorCode = "C006" // recursive reference
	ErrC007 ErrorCode = "C007" // string literal too long

	// Runtime errors
	ErrR001 ErrorCode = "R001" // stack underflow
	ErrR002 ErrorCode = "R002" // unknown opcode
	ErrR003 ErrorCode = "R003" // missing operand
	ErrR004 ErrorCode = "R004" // invalid heap address
	ErrR005 ErrorCode = "R005" // invalid utf-8
	ErrR006 ErrorCode = "R006" // return without call
	ErrR007 ErrorCode = "R007" // stack overflow
	ErrR008 ErrorCode = "R008" // call stack overflow
	ErrR009 ErrorCode = "R009" // invalid string record
	ErrR010 ErrorCode = "R010" // invalid jump target
)

// Kind sentinels. Every DiagnosticError unwraps to exactly one of them.
var (
	ErrTokenise    = errors.New("tokenise error")
	ErrParse       = errors.New("parse error")
	ErrAnalysis    = errors.New("analysis error")
	ErrType        = errors.New("type error")
	ErrCompilation = errors.New("compilation error")
	ErrRuntime     = errors.New("runtime error")
)

// DiagnosticError is the single error type produced by every stage.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// Error returns the plain message, suitable for showing to users as-is.
func (e *DiagnosticError) Error() string {
	return e.Message
}

// Detailed includes the code and, when known, the source position.
func (e *DiagnosticError) Detailed() string {
	pos := ""
	if e.Token.Line > 0 {
		pos = fmt.Sprintf("%d:%d: ", e.Token.Line, e.Token.Column)
	}
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	return fmt.Sprintf("[%s] %s%s", e.Code, pos, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Code.Kind()
}

// Kind maps a code to its stage sentinel.
func (c ErrorCode) Kind() error {
	if c == "" {
		return nil
	}
	switch c[0] {
	case 'L':
		return ErrTokenise
	case 'P':
		return ErrParse
	case 'A':
		return ErrAnalysis
	case 'T':
		return ErrType
	case 'C':
		return ErrCompilation
	case 'R':
		return ErrRuntime
	}
	return nil
}

// KindName is the short stage name for a code, used in logs.
func (c ErrorCode) KindName() string {
	switch c.Kind() {
	case ErrTokenise:
		return "tokenise"
	case ErrParse:
		return "parse"
	case ErrAnalysis:
		return "analysis"
	case ErrType:
		return "type"
	case ErrCompilation:
		return "compilation"
	case ErrRuntime:
		return "runtime"
	}
	return "unknown"
}
