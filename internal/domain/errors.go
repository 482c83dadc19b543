package domain

import "errors"

// ErrValidation marks input rejected before it reaches storage. Usecases
// wrap it with the offending detail.
var ErrValidation = errors.New("validation failed")
