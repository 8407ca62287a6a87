package store

import (
	"encoding/json"
	"strconv"
)

// ValueKind discriminates the typed value an Attribute carries. The
// source's sdb_data_t is a much larger tagged union (string, integer,
// decimal, datetime, binary, and array variants of each); the daemon
// proper only ever stores what collectors hand it, which in practice is
// strings and integers, so those are the two variants kept.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
)

// Value is an attribute's typed value.
type Value struct {
	Kind    ValueKind
	Str     string
	Integer int64
}

// StringValue builds a string-typed Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// IntValue builds an integer-typed Value.
func IntValue(n int64) Value { return Value{Kind: ValueInteger, Integer: n} }

// String renders the value in its unquoted string form, used by
// attr-matchers to compare against a name-predicate.
func (v Value) String() string {
	switch v.Kind {
	case ValueInteger:
		return strconv.FormatInt(v.Integer, 10)
	default:
		return v.Str
	}
}

// MarshalJSON renders the value the way the store's JSON formatter does:
// a quoted string or a bare number, never a synthetic wrapper object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueInteger:
		return json.Marshal(v.Integer)
	default:
		return json.Marshal(v.Str)
	}
}
