// Package object provides the managed-object substrate: a name, a
// reference count, and a destructor. In the daemon, the plugin Context is
// built on it; callback records, connections, matchers, and store
// entities are plain Go values.
//
// The original implementation models this as a hand-rolled C refcount
// with a va_list-based factory (core/object.c). Go gives us automatic
// memory management, so the only thing worth keeping from that design is
// the reference-counting discipline itself — acquire to keep a handle
// past the call that returned it, release to give it up, destructor runs
// exactly once at the transition to zero. Construction is just a typed
// constructor per entity instead of a descriptor plus variadic args.
package object

import (
	"fmt"
	"sync/atomic"
)

// Object is the universal substrate: a name, a reference count starting
// at 1, and an optional destructor that runs exactly once when the count
// reaches zero.
type Object struct {
	name    string
	refs    atomic.Int32
	destroy func()
}

// New creates an Object with refcount 1. destroy may be nil.
func New(name string, destroy func()) *Object {
	if name == "" {
		panic("object: name must not be empty")
	}
	o := &Object{name: name, destroy: destroy}
	o.refs.Store(1)
	return o
}

// Name returns the object's name, set at creation and immutable after.
func (o *Object) Name() string {
	return o.name
}

// RefCount returns the current reference count. Intended for tests and
// diagnostics only; do not branch production logic on it beyond zero.
func (o *Object) RefCount() int32 {
	return o.refs.Load()
}

// Acquire increments the reference count. Panics if the object has
// already been destroyed — acquiring a dead object is an invariant
// violation, never a legitimate race to paper over.
func (o *Object) Acquire() {
	for {
		cur := o.refs.Load()
		if cur <= 0 {
			panic(fmt.Sprintf("object: acquire on destroyed object %q", o.name))
		}
		if o.refs.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

// Release decrements the reference count, running the destructor exactly
// once when it reaches zero. Release is nil-tolerant: releasing a nil
// Object is a no-op. Returns true if this call triggered destruction.
func (o *Object) Release() bool {
	if o == nil {
		return false
	}
	for {
		cur := o.refs.Load()
		if cur <= 0 {
			panic(fmt.Sprintf("object: double release of %q", o.name))
		}
		if o.refs.CompareAndSwap(cur, cur-1) {
			if cur-1 == 0 {
				if o.destroy != nil {
					o.destroy()
				}
				return true
			}
			return false
		}
	}
}

// Wrapper is a generic managed object owning an opaque payload plus a
// payload destructor — used when a refcount discipline is wanted around
// data that has none of its own (the "wrapper" variant of §4.1).
type Wrapper[T any] struct {
	*Object
	Data T

	payloadDestroy func(T)
}

// NewWrapper creates a Wrapper around data with refcount 1. payloadDestroy
// is invoked, if non-nil, when the wrapper's refcount reaches zero.
func NewWrapper[T any](name string, data T, payloadDestroy func(T)) *Wrapper[T] {
	w := &Wrapper[T]{Data: data, payloadDestroy: payloadDestroy}
	w.Object = New(name, func() {
		if w.payloadDestroy != nil {
			w.payloadDestroy(w.Data)
		}
	})
	return w
}
