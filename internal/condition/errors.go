package condition

import "errors"

var ErrUnknownClass = errors.New("unknown condition class")
