// Package issue carries the lightweight error representation shared by the
// internal decoding packages. The root package converts it into Issues.
package issue

import (
	"fmt"
	"strings"
)

const (
	CodeFormat      = "format_error"
	CodeInvalidType = "invalid_type"
	CodeUnknownKey  = "unknown_key"
	CodeInvalidFmt  = "invalid_format"
	CodeOverflow    = "overflow"
	CodeUnsupported = "unsupported_shape"
	CodeRequired    = "required"
	CodeDuplicate   = "duplicate_key"
	CodeMaxDepth    = "max_depth"
	CodeTruncated   = "truncated"
	CodeAliasing    = "excessive_aliasing"
	CodeBuilder     = "builder_error"
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Line    int
	Column  int
	Params  map[string]any
}

// Error is a lightweight error carrying a SimpleIssue.
type Error struct {
	SimpleIssue
	Cause error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error without path or position; the engine fills those in.
func New(code, format string, args ...any) *Error {
	return &Error{SimpleIssue: SimpleIssue{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// With attaches a structured parameter and returns e.
func (e *Error) With(key string, v any) *Error {
	if e.Params == nil {
		e.Params = make(map[string]any, 2)
	}
	e.Params[key] = v
	return e
}

// Wrap records the underlying cause and returns e.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapeToken escapes one JSON Pointer reference token.
func EscapeToken(s string) string { return pointerEscaper.Replace(s) }

// JoinPointer appends token to the JSON Pointer base. "" and "/" both name
// the root.
func JoinPointer(base, token string) string {
	if base == "" || base == "/" {
		return "/" + EscapeToken(token)
	}
	return base + "/" + EscapeToken(token)
}
