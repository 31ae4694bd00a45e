package errcode

// Code is a stable, protocol-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK             Code = "ok"
	Busy           Code = "busy"
	Unsupported    Code = "unsupported"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"

	ConfigNotLoaded  Code = "config_not_loaded"
	UnknownComponent Code = "unknown_component"
	UnknownTag       Code = "unknown_tag"
	UnknownCommand   Code = "unknown_command"
	BadFrame         Code = "bad_frame"
	StoreFailed      Code = "store_failed"
	Timeout          Code = "timeout"

	ProximityInitFailed Code = "proximity_init_failed"

	Error Code = "error" // generic fallback
)

// E is an optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
