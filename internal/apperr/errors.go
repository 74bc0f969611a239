package apperr

import "errors"

var (
	ErrEmptyData     = errors.New("empty data file")
	ErrDuplicateName = errors.New("duplicate fragment name")
	ErrCycle         = errors.New("dependency cycle")
)
