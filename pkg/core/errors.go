package core

import "fmt"

// Kind classifies a load-time failure. Mid-render, failures are impossible
// by construction (see the tracer and BRDF packages' documented fallback
// behavior) — Kind only ever shows up wrapping errors from scene, settings,
// or asset loading.
type Kind int

const (
	// ImportError is a malformed or unsupported asset (mesh, texture,
	// material) rejected by an ingestion layer.
	ImportError Kind = iota
	// IoError is a missing or unreadable file.
	IoError
	// FormatError is a JSON or container header parse failure.
	FormatError
)

func (k Kind) String() string {
	switch k {
	case ImportError:
		return "import error"
	case IoError:
		return "io error"
	case FormatError:
		return "format error"
	default:
		return "error"
	}
}

// LoadError wraps an underlying error with the three-way classification
// load-time callers (scene, settings, and mesh loading) use to decide how
// to present a failure to the user, without losing the original error for
// errors.Is/As.
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WrapImport wraps err as an ImportError.
func WrapImport(err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Kind: ImportError, Err: err}
}

// WrapIo wraps err as an IoError.
func WrapIo(err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Kind: IoError, Err: err}
}

// WrapFormat wraps err as a FormatError.
func WrapFormat(err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Kind: FormatError, Err: err}
}
