package diag

import "errors"

var ErrUnknownColorMode = errors.New("unknown color mode")
