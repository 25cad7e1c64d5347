package snapshot

import "errors"

// ErrIncompatible is returned when the header version, hw_type, or a
// chunk page id names something this loader does not support.
var ErrIncompatible = errors.New("snapshot: incompatible snapshot")

// ErrEndOfData is returned when the transport reports no further data
// (moreExpected == false) before the parser reached completion.
var ErrEndOfData = errors.New("snapshot: end of data before completion")
