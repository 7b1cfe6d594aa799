package curvefit

import "errors"

// ErrInvalidArgument is returned, wrapped with details, when a function is
// given input it cannot work with: a nil point slice, a tolerance or spacing
// not greater than [Epsilon], or non-finite coordinates.
// Test for it with [errors.Is].
var ErrInvalidArgument = errors.New("curvefit: invalid argument")
