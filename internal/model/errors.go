package model

import "errors"

// ErrUnknownCategory is returned when a name is not part of the taxonomy.
var ErrUnknownCategory = errors.New("unknown hotel category")
