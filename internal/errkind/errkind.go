// Package errkind classifies errors produced by the migration pipeline
// into the taxonomy described by the audit spec, without introducing a
// bespoke exception hierarchy. Callers keep wrapping errors with
// fmt.Errorf("...: %w", err) as the teacher does throughout pkg/parser
// and pkg/api; this package only adds a tag those wrapped errors can
// carry so a caller can later ask "what kind of failure was this".
package errkind

import "errors"

// Kind is one of the taxonomy buckets from the spec's error handling
// design. It is not meant to replace Go's error values, only to let a
// caller branch on the category of an error it received.
type Kind int

const (
	// Unknown is the zero value: an error with no attached Kind.
	Unknown Kind = iota
	// InputFormat is malformed XML/CSV or an unrecognized sitemap root.
	InputFormat
	// InputMissing marks an optional input that was not provided; this
	// is not itself an error condition and is never attached with Tag.
	InputMissing
	// TransportFailure is a network timeout, DNS failure, or reset.
	TransportFailure
	// HTTPClientError is a non-2xx, 4xx response captured in a ProbeResult.
	HTTPClientError
	// HTTPServerError is a non-2xx, 5xx response captured in a ProbeResult.
	HTTPServerError
	// RenderFailure is a headless navigation timeout or crash.
	RenderFailure
	// StageFailure is an uncaught failure inside a pipeline stage; the
	// only kind that propagates to the Project's status/progress.error.
	StageFailure
)

func (k Kind) String() string {
	switch k {
	case InputFormat:
		return "input_format"
	case InputMissing:
		return "input_missing"
	case TransportFailure:
		return "transport_failure"
	case HTTPClientError:
		return "http_client_error"
	case HTTPServerError:
		return "http_server_error"
	case RenderFailure:
		return "render_failure"
	case StageFailure:
		return "stage_failure"
	default:
		return "unknown"
	}
}

// tagged wraps an error with a Kind so it survives fmt.Errorf("%w") chains.
type tagged struct {
	kind Kind
	err  error
}

func (t *tagged) Error() string { return t.err.Error() }
func (t *tagged) Unwrap() error { return t.err }

// Tag attaches a Kind to err. If err is nil, Tag returns nil.
func Tag(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &tagged{kind: kind, err: err}
}

// Of returns the Kind attached to err via Tag, or Unknown if none is
// found anywhere in the error's Unwrap chain.
func Of(err error) Kind {
	var t *tagged
	if errors.As(err, &t) {
		return t.kind
	}
	return Unknown
}

// Is reports whether err (or something it wraps) carries kind.
func Is(err error, kind Kind) bool {
	return Of(err) == kind
}
