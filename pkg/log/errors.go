package log

import "errors"

// Log errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEntryEvaluated  = errors.New("entry already evaluated")
	ErrInvalidLevel    = errors.New("invalid level")
	ErrInvalidOutcome  = errors.New("invalid outcome")
)
