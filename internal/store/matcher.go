package store

import (
	"regexp"
	"strings"
)

// Matcher is the store's recursive polymorphic query value (§3.3),
// re-architected per the redesign notes as a tagged sum with an Evaluate
// operation dispatched by variant, the same shape as a parser's AST
// (compare NamePredicate's role here to an expression node that only
// knows how to check itself against one kind of value).
//
// A nil Matcher is the null matcher and matches everything; callers
// should go through the package-level Evaluate function rather than
// calling Evaluate directly so that nil receivers and nil entities are
// both handled uniformly.
type Matcher interface {
	Evaluate(e Entity) bool
	matcherNode()
}

// Evaluate applies m to e, treating a nil matcher or a nil entity as a
// vacuous match (§8: "match(null, anything) = true; match(m, null) =
// true").
func Evaluate(m Matcher, e Entity) bool {
	if m == nil || e == nil {
		return true
	}
	return m.Evaluate(e)
}

// NamePredicate is literal case-insensitive equality and/or a regular
// expression; both may be set, both must match. The zero value matches
// everything.
type NamePredicate struct {
	Literal string
	Regex   *regexp.Regexp
}

// Match reports whether name satisfies the predicate.
func (p NamePredicate) Match(name string) bool {
	if p.Literal != "" && !strings.EqualFold(p.Literal, name) {
		return false
	}
	if p.Regex != nil && !p.Regex.MatchString(name) {
		return false
	}
	return true
}

// AttrMatcher matches an Attribute by name and/or rendered value.
type AttrMatcher struct {
	Name  NamePredicate
	Value NamePredicate
}

func (AttrMatcher) matcherNode() {}

// Evaluate matches only against *Attribute; any other entity is a
// type-incompatible application and evaluates to no-match.
func (m AttrMatcher) Evaluate(e Entity) bool {
	a, ok := e.(*Attribute)
	if !ok {
		return false
	}
	return m.Name.Match(a.name) && m.Value.Match(a.value.String())
}

// ServiceMatcher matches a Service by name and, optionally, by requiring
// at least one of its attributes to satisfy Attr.
type ServiceMatcher struct {
	Name NamePredicate
	Attr Matcher
}

func (ServiceMatcher) matcherNode() {}

func (m ServiceMatcher) Evaluate(e Entity) bool {
	s, ok := e.(*Service)
	if !ok {
		return false
	}
	if !m.Name.Match(s.name) {
		return false
	}
	if m.Attr == nil {
		return true
	}
	for _, a := range s.Attributes() {
		if m.Attr.Evaluate(a) {
			return true
		}
	}
	return false
}

// HostMatcher matches a Host by name and, optionally, by requiring at
// least one of its services and/or at least one of its host-level
// attributes to satisfy the given sub-matchers.
type HostMatcher struct {
	Name    NamePredicate
	Service Matcher
	Attr    Matcher
}

func (HostMatcher) matcherNode() {}

func (m HostMatcher) Evaluate(e Entity) bool {
	h, ok := e.(*Host)
	if !ok {
		return false
	}
	if !m.Name.Match(h.name) {
		return false
	}
	if m.Service != nil {
		matched := false
		for _, s := range h.Services() {
			if m.Service.Evaluate(s) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if m.Attr != nil {
		matched := false
		for _, a := range h.Attributes() {
			if m.Attr.Evaluate(a) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Field names the entity field a FieldMatcher compares.
type Field int

const (
	FieldName Field = iota
	FieldLastUpdate
)

// CompareOp is a FieldMatcher's comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// FieldMatcher compares one of an entity's own scalar fields (name,
// last_update) against a constant, independent of entity kind — this is
// what the JSON formatter's "filter" argument is built from in practice
// (e.g. last_update > t).
type FieldMatcher struct {
	Field Field
	Op    CompareOp
	Str   string
	Int   int64
}

func (FieldMatcher) matcherNode() {}

func (m FieldMatcher) Evaluate(e Entity) bool {
	switch m.Field {
	case FieldName:
		return compareString(e.EntityName(), m.Op, m.Str)
	case FieldLastUpdate:
		return compareInt(e.EntityLastUpdate(), m.Op, m.Int)
	default:
		return false
	}
}

func compareString(a string, op CompareOp, b string) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

func compareInt(a int64, op CompareOp, b int64) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		return false
	}
}

// AndMatcher is the short-circuiting conjunction of two matchers.
type AndMatcher struct {
	Left, Right Matcher
}

func (AndMatcher) matcherNode() {}

func (m AndMatcher) Evaluate(e Entity) bool {
	return Evaluate(m.Left, e) && Evaluate(m.Right, e)
}

// OrMatcher is the short-circuiting disjunction of two matchers.
type OrMatcher struct {
	Left, Right Matcher
}

func (OrMatcher) matcherNode() {}

func (m OrMatcher) Evaluate(e Entity) bool {
	return Evaluate(m.Left, e) || Evaluate(m.Right, e)
}
