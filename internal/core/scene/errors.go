package scene

import "errors"

var (
	ErrMissingTransform = errors.New("missing transform")
	ErrNonFinite        = errors.New("non-finite redirection")
	ErrLimbCount        = errors.New("redirection count does not match limbs")
)
