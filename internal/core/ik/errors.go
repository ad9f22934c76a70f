package ik

import "errors"

var (
	ErrInvalidChain   = errors.New("invalid chain")
	ErrUnreachable    = errors.New("target out of reach")
	ErrInvalidOptions = errors.New("invalid solver options")
)
