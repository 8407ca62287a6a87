package llist

import "errors"

// ErrIndexOutOfRange is returned by InsertAt when index > Len().
var ErrIndexOutOfRange = errors.New("llist: index out of range")
