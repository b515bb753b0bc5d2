package render

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Code classifies every failure the renderer can report. Transient codes
// (NotReady, OutOfDate) are expected steady-state behaviour during resize
// and minimisation and must be retried by the caller on the next frame.
type Code int32

const (
	Ok Code = iota
	Unspecified
	BadArgs
	NoMem
	Device
	NotReady
	OutOfDate
	Unsupported
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case Unspecified:
		return "unspecified"
	case BadArgs:
		return "bad arguments"
	case NoMem:
		return "out of memory"
	case Device:
		return "device failure"
	case NotReady:
		return "not ready"
	case OutOfDate:
		return "out of date"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

// Transient reports whether the code describes a recoverable condition
// that the caller should retry on a subsequent frame.
func (c Code) Transient() bool {
	return c == NotReady || c == OutOfDate
}

// Error carries a taxonomy code alongside the message. All renderer entry
// points return either nil or an error whose chain contains one.
type Error struct {
	code  Code
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.code.String() + ": " + e.cause.Error()
}

// Code returns the taxonomy code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the taxonomy code from an error chain. A nil error maps
// to Ok, an error without a render code to Unspecified.
func CodeOf(err error) Code {
	if err == nil {
		return Ok
	}
	var re *Error
	if errors.As(err, &re) {
		return re.code
	}
	return Unspecified
}

// NewError attaches a taxonomy code to cause.
func NewError(code Code, cause error) error {
	return &Error{code: code, cause: cause}
}

func coded(code Code, err error) error {
	return &Error{code: code, cause: err}
}

func codedf(code Code, format string, args ...interface{}) error {
	return &Error{code: code, cause: errors.Newf(format, args...)}
}

// vkCall converts a Vulkan result into a coded error, annotated with the
// failing call the way "vk.CreateDevice(): ..." reads in logs. Returns nil
// on success.
func vkCall(code Code, op string, res vk.Result) error {
	if res == vk.Success {
		return nil
	}
	return &Error{code: code, cause: errors.Wrapf(vk.Error(res), "%s()", op)}
}
