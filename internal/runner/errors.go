package runner

import "errors"

// Kind labels where in the pipeline a failure originated. Interactive
// mode reports it as the envelope's "type" field.
type Kind string

const (
	KindRequest    Kind = "request"
	KindFile       Kind = "file"
	KindURL        Kind = "url"
	KindCredential Kind = "credential"
	KindEngine     Kind = "engine"
	KindInternal   Kind = "internal"
)

// Error attaches a Kind to a pipeline failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// kindErr wraps err with a kind, preserving the cause chain.
func kindErr(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}
