package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrIncomplete reports that a buffer ends before one complete value. It
// is the decode-side twin of ExactLength returning 0 and is returned
// unwrapped so callers can compare against it directly.
var ErrIncomplete = errors.New("codec: incomplete buffer")

// Op names the operation that failed.
type Op string

const (
	OpDecode  Op = "decode"
	OpEncode  Op = "encode"
	OpCompile Op = "compile"
)

// Kind categorizes a fatal error.
type Kind string

const (
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindTooLong      Kind = "too_long"
	KindInvalidData  Kind = "invalid_data"
	KindLength       Kind = "length_mismatch"
	KindTypeMismatch Kind = "type_mismatch"
	KindUnsupported  Kind = "unsupported"
)

// Error is a fatal codec error. Path locates the failing member inside
// nested records and collections.
type Error struct {
	Op     Op
	Kind   Kind
	Path   []string
	GoType string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("codec: [")
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(joinPath(e.Path))
	}
	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}
	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same Op and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// IsIncomplete reports whether err asks the caller to wait for more bytes.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// IsFatal reports whether err is a failure that more input cannot fix.
func IsFatal(err error) bool {
	return err != nil && !IsIncomplete(err)
}

func newError(op Op, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func typeMismatch(op Op, v any, want reflect.Type) *Error {
	return &Error{
		Op:     op,
		Kind:   KindTypeMismatch,
		GoType: fmt.Sprintf("%T", v),
		Detail: "want " + want.String(),
	}
}

func unsupported(t reflect.Type, path []string, detail string) *Error {
	return &Error{
		Op:     OpCompile,
		Kind:   KindUnsupported,
		Path:   append([]string(nil), path...),
		GoType: t.String(),
		Detail: detail,
	}
}

// withPath prefixes the location of a failing member. Incomplete and
// foreign errors pass through untouched.
func withPath(err error, member string) error {
	var ce *Error
	if !errors.As(err, &ce) {
		return err
	}
	cp := *ce
	cp.Path = append([]string{member}, ce.Path...)
	return &cp
}

func joinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

func index(i int) string {
	return fmt.Sprintf("[%d]", i)
}
