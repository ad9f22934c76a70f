package interpolation

import "errors"

var (
	ErrTooFewPoints     = errors.New("too few points")
	ErrMismatchedPoints = errors.New("reference and target counts differ")
	ErrCollinearPoints  = errors.New("reference points are collinear")
	ErrSingularSystem   = errors.New("spline system is singular")
	ErrNegativeLambda   = errors.New("smoothing parameter is negative")
)
