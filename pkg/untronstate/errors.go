// Copyright 2025 Certen Protocol

package untronstate

import "errors"

// ErrTruncated is returned when a buffer ends before a complete record of
// the expected shape could be read.
var ErrTruncated = errors.New("untronstate: truncated encoding")
