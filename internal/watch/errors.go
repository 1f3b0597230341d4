package watch

import "errors"

// ErrNothingToWatch means no selection had an existing static directory prefix.
var ErrNothingToWatch = errors.New("watch: no selection directory exists")
