package errs

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalid          = errors.New("invalid")
	ErrNoContext        = errors.New("no retrievable context")
	ErrIndexUnavailable = errors.New("vector index unavailable")
	ErrIndexWrite       = errors.New("vector index write failed")
	ErrProvider         = errors.New("provider request failed")
	ErrUnsupported      = errors.New("unsupported format")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoContext)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
