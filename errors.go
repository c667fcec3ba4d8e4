package shapeyaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/shapeyaml/internal/issue"
)

// Issue codes.
const (
	CodeFormat       = issue.CodeFormat      // input is not a single well-formed document
	CodeInvalidType  = issue.CodeInvalidType // source kind does not fit the target shape
	CodeUnknownKey   = issue.CodeUnknownKey
	CodeInvalidFmt   = issue.CodeInvalidFmt // scalar text could not be parsed
	CodeOverflow     = issue.CodeOverflow
	CodeUnsupported  = issue.CodeUnsupported
	CodeRequired     = issue.CodeRequired
	CodeDuplicateKey = issue.CodeDuplicate
	CodeMaxDepth     = issue.CodeMaxDepth
	CodeTruncated    = issue.CodeTruncated
	// CodeExcessiveAliasing reports alias expansion out of proportion to the
	// document, see ParseOpt.ResolveAliases.
	CodeExcessiveAliasing = issue.CodeAliasing
	// CodeBuilder reports a value that could not be assembled. It indicates a
	// bug rather than bad input.
	CodeBuilder = issue.CodeBuilder
)

var (
	// ErrNilTarget is returned by Unmarshal for a nil pointer.
	ErrNilTarget = errors.New("shapeyaml: Unmarshal(nil)")
	// ErrNotPointer is returned by Unmarshal for a non-pointer target.
	ErrNotPointer = errors.New("shapeyaml: Unmarshal target must be a pointer")
)

// Issue describes a single decoding failure or warning.
type Issue struct {
	Path    string // JSON Pointer of the hole being filled (for example: /servers/2/port).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional remediation hint.
	Cause   error  // Optional underlying error.
	// Line and Column locate the offending source node (1-based, 0 when unknown).
	Line   int
	Column int
	// Params carries structured parameters (e.g., {"expected":"mapping","got":"string"}).
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Line > 0 {
			fmt.Fprintf(b, " (line %d)", it.Line)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the first issue's cause to errors.Is and errors.As.
func (iss Issues) Unwrap() error {
	if len(iss) == 0 {
		return nil
	}
	return iss[0].Cause
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func fromSimple(si issue.SimpleIssue, cause error) Issue {
	path := si.Path
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:    path,
		Code:    si.Code,
		Message: si.Message,
		Hint:    hintFor(si.Code),
		Cause:   cause,
		Line:    si.Line,
		Column:  si.Column,
		Params:  si.Params,
	}
}

// toIssues converts internal errors into Issues at the API boundary.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	var ie *issue.Error
	if errors.As(err, &ie) {
		return Issues{fromSimple(ie.SimpleIssue, ie.Cause)}
	}
	return Issues{{Path: "/", Code: CodeBuilder, Message: err.Error(), Cause: err}}
}

func hintFor(code string) string {
	switch code {
	case CodeUnknownKey:
		return "remove the key or add a matching field"
	case CodeRequired:
		return "add the key or give the field a default"
	case CodeMaxDepth:
		return "raise ParseOpt.MaxDepth"
	case CodeTruncated:
		return "raise ParseOpt.MaxBytes"
	case CodeExcessiveAliasing:
		return "reuse anchors less or leave ParseOpt.ResolveAliases off"
	}
	return ""
}
