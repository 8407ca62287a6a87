package plugin

import "errors"

// ErrConflict is returned when a registration names an already-registered
// callback.
var ErrConflict = errors.New("plugin: conflict")

// ErrInvalidArgument is returned when a writer vtable is missing one of
// its six required functions.
var ErrInvalidArgument = errors.New("plugin: invalid argument")
