package store_test

import (
	"regexp"
	"testing"

	"github.com/gavioto/sysdb/internal/store"
)

func TestEvaluateNullMatcherMatchesAnything(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	h, _ := s.Host("h1")
	if !store.Evaluate(nil, h) {
		t.Fatal("match(null, anything) must be true")
	}
}

func TestEvaluateNullEntityMatchesAnything(t *testing.T) {
	m := store.FieldMatcher{Field: store.FieldName, Op: store.OpEq, Str: "nope"}
	if !store.Evaluate(m, nil) {
		t.Fatal("match(m, null) must be true")
	}
}

func TestTypeIncompatibleApplicationIsNoMatch(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	s.StoreAttribute("h1", "k", store.StringValue("v"), 2)
	h, _ := s.Host("h1")
	a := h.Attributes()[0]

	// HostMatcher applied to an Attribute is type-incompatible.
	hm := store.HostMatcher{Name: store.NamePredicate{Literal: "h1"}}
	if hm.Evaluate(a) {
		t.Fatal("HostMatcher applied to an Attribute must be no-match, not a panic or a true")
	}

	// AttrMatcher applied to a Host is likewise type-incompatible.
	am := store.AttrMatcher{Name: store.NamePredicate{Literal: "k"}}
	if am.Evaluate(h) {
		t.Fatal("AttrMatcher applied to a Host must be no-match")
	}
}

func TestNamePredicateLiteralCaseInsensitive(t *testing.T) {
	p := store.NamePredicate{Literal: "Host1"}
	if !p.Match("host1") {
		t.Fatal("literal match must be case-insensitive")
	}
	if p.Match("host2") {
		t.Fatal("literal mismatch must not match")
	}
}

func TestNamePredicateRegexAndLiteralBothRequired(t *testing.T) {
	p := store.NamePredicate{Literal: "host1", Regex: regexp.MustCompile(`^h`)}
	if !p.Match("host1") {
		t.Fatal("both literal and regex satisfied must match")
	}
	p2 := store.NamePredicate{Literal: "host1", Regex: regexp.MustCompile(`^x`)}
	if p2.Match("host1") {
		t.Fatal("regex failing must fail the whole predicate even if literal matches")
	}
}

func TestAttrMatcherNameAndValue(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	s.StoreAttribute("h1", "role", store.StringValue("db"), 2)
	h, _ := s.Host("h1")
	a := h.Attributes()[0]

	m := store.AttrMatcher{
		Name:  store.NamePredicate{Literal: "role"},
		Value: store.NamePredicate{Literal: "db"},
	}
	if !m.Evaluate(a) {
		t.Fatal("expected AttrMatcher to match on name+value")
	}

	m2 := store.AttrMatcher{
		Name:  store.NamePredicate{Literal: "role"},
		Value: store.NamePredicate{Literal: "web"},
	}
	if m2.Evaluate(a) {
		t.Fatal("value mismatch must not match")
	}
}

func TestServiceMatcherRequiresMatchingAttr(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	s.StoreService("h1", "svc1", 2)
	s.StoreServiceAttr("h1", "svc1", "role", store.StringValue("db"), 3)
	h, _ := s.Host("h1")
	svc := h.Services()[0]

	m := store.ServiceMatcher{
		Name: store.NamePredicate{Literal: "svc1"},
		Attr: store.AttrMatcher{Name: store.NamePredicate{Literal: "role"}},
	}
	if !m.Evaluate(svc) {
		t.Fatal("expected service to match when one of its attributes matches Attr")
	}

	m2 := store.ServiceMatcher{
		Name: store.NamePredicate{Literal: "svc1"},
		Attr: store.AttrMatcher{Name: store.NamePredicate{Literal: "missing"}},
	}
	if m2.Evaluate(svc) {
		t.Fatal("expected no match when no attribute satisfies Attr")
	}
}

func TestHostMatcherNestedServiceAndAttr(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	s.StoreService("h1", "svc1", 2)
	h, _ := s.Host("h1")

	m := store.HostMatcher{
		Name:    store.NamePredicate{Literal: "h1"},
		Service: store.ServiceMatcher{Name: store.NamePredicate{Literal: "svc1"}},
	}
	if !m.Evaluate(h) {
		t.Fatal("expected host to match via nested service matcher")
	}

	m2 := store.HostMatcher{
		Name:    store.NamePredicate{Literal: "h1"},
		Service: store.ServiceMatcher{Name: store.NamePredicate{Literal: "nope"}},
	}
	if m2.Evaluate(h) {
		t.Fatal("expected no match when no service satisfies the nested matcher")
	}
}

func TestFieldMatcherComparisons(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 5)
	h, _ := s.Host("h1")

	cases := []struct {
		m    store.FieldMatcher
		want bool
	}{
		{store.FieldMatcher{Field: store.FieldLastUpdate, Op: store.OpEq, Int: 5}, true},
		{store.FieldMatcher{Field: store.FieldLastUpdate, Op: store.OpGt, Int: 5}, false},
		{store.FieldMatcher{Field: store.FieldLastUpdate, Op: store.OpGe, Int: 5}, true},
		{store.FieldMatcher{Field: store.FieldLastUpdate, Op: store.OpLt, Int: 6}, true},
		{store.FieldMatcher{Field: store.FieldName, Op: store.OpNe, Str: "h2"}, true},
		{store.FieldMatcher{Field: store.FieldName, Op: store.OpEq, Str: "h2"}, false},
	}
	for i, c := range cases {
		if got := c.m.Evaluate(h); got != c.want {
			t.Fatalf("case %d: got %v, want %v", i, got, c.want)
		}
	}
}

func TestAndOrMatcherShortCircuit(t *testing.T) {
	s := store.New(nil)
	s.StoreHost("h1", 1)
	h, _ := s.Host("h1")

	trueM := store.FieldMatcher{Field: store.FieldName, Op: store.OpEq, Str: "h1"}
	falseM := store.FieldMatcher{Field: store.FieldName, Op: store.OpEq, Str: "h2"}

	if !(store.AndMatcher{Left: trueM, Right: trueM}).Evaluate(h) {
		t.Fatal("true AND true must be true")
	}
	if (store.AndMatcher{Left: trueM, Right: falseM}).Evaluate(h) {
		t.Fatal("true AND false must be false")
	}
	if !(store.OrMatcher{Left: falseM, Right: trueM}).Evaluate(h) {
		t.Fatal("false OR true must be true")
	}
	if (store.OrMatcher{Left: falseM, Right: falseM}).Evaluate(h) {
		t.Fatal("false OR false must be false")
	}
}
