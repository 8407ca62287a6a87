package store_test

import (
	"bytes"
	"testing"

	"github.com/gavioto/sysdb/internal/store"
)

func populateFixture(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(nil)

	s.StoreHost("h1", 1)
	s.StoreHost("h2", 3)

	s.StoreAttribute("h1", "k1", store.StringValue("v1"), 1)
	s.StoreAttribute("h1", "k2", store.StringValue("v2"), 2)
	s.StoreAttribute("h1", "k3", store.StringValue("v3"), 2)

	// older updates must not overwrite existing values
	s.StoreAttribute("h1", "k2", store.StringValue("fail"), 1)
	s.StoreAttribute("h1", "k3", store.StringValue("fail"), 2)

	s.StoreMetric("h1", "m1", "", 2)
	s.StoreMetric("h1", "m2", "", 1)
	s.StoreMetric("h2", "m1", "", 1)

	s.StoreService("h2", "s1", 1)
	s.StoreService("h2", "s2", 2)

	s.StoreMetricAttr("h1", "m1", "k3", store.IntValue(42), 2)

	s.StoreServiceAttr("h2", "s2", "k1", store.IntValue(123), 2)
	s.StoreServiceAttr("h2", "s2", "k2", store.IntValue(4711), 1)

	// don't overwrite k1
	s.StoreServiceAttr("h2", "s2", "k1", store.IntValue(666), 2)

	return s
}

func TestJSONShapeFullFixture(t *testing.T) {
	s := populateFixture(t)

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindHost, nil, nil, true)

	want := "[" +
		`{"name": "h1", "last_update": "1970-01-01 00:00:00 +0000", ` +
		`"update_interval": "0s", "backends": [], ` +
		`"attributes": [` +
		`{"name": "k1", "value": "v1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "k2", "value": "v2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "k3", "value": "v3", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		`], "metrics": [` +
		`{"name": "m1", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"attributes": [{"name": "k3", "value": 42, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}]},` +
		`{"name": "m2", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		`]},` +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"metrics": [{"name": "m1", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}], ` +
		`"services": [` +
		`{"name": "s1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "s2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"attributes": [` +
		`{"name": "k1", "value": 123, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "k2", "value": 4711, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		`]}` +
		`]}` +
		"]"

	if buf.String() != want {
		t.Fatalf("JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONShapeCompact(t *testing.T) {
	s := populateFixture(t)

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindHost, nil, nil, false)

	want := "[" +
		`{"name": "h1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		"]"
	if buf.String() != want {
		t.Fatalf("compact JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONFilteredLastUpdateGreaterThanOne(t *testing.T) {
	s := populateFixture(t)

	filter := store.FieldMatcher{Field: store.FieldLastUpdate, Op: store.OpGt, Int: 1}

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindHost, nil, filter, true)

	want := "[" +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"services": [{"name": "s2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"attributes": [{"name": "k1", "value": 123, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}]}` +
		`]}` +
		"]"

	if buf.String() != want {
		t.Fatalf("filtered JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONShapeServiceKindOmitsAttributesAndMetrics(t *testing.T) {
	s := populateFixture(t)

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindService, nil, nil, true)

	want := "[" +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"services": [` +
		`{"name": "s1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "s2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"attributes": [` +
		`{"name": "k1", "value": 123, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []},` +
		`{"name": "k2", "value": 4711, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		`]}` +
		`]}` +
		"]"

	if buf.String() != want {
		t.Fatalf("service-kind JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONShapeServiceKindCompact(t *testing.T) {
	s := populateFixture(t)

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindService, nil, nil, false)

	want := "[" +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		"]"

	if buf.String() != want {
		t.Fatalf("compact service-kind JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONShapeMetricKindOmitsAttributesAndServices(t *testing.T) {
	s := populateFixture(t)

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindMetric, nil, nil, true)

	want := "[" +
		`{"name": "h1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"metrics": [` +
		`{"name": "m1", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"attributes": [{"name": "k3", "value": 42, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}]},` +
		`{"name": "m2", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		`]},` +
		`{"name": "h2", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": [], ` +
		`"metrics": [{"name": "m1", "timeseries": false, "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}]}` +
		"]"

	if buf.String() != want {
		t.Fatalf("metric-kind JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}

func TestJSONNameEqualityFilter(t *testing.T) {
	s := populateFixture(t)

	filter := store.FieldMatcher{Field: store.FieldName, Op: store.OpEq, Str: "h1"}

	var buf bytes.Buffer
	s.FormatJSON(&buf, store.KindHost, nil, filter, true)

	want := "[" +
		`{"name": "h1", "last_update": "1970-01-01 00:00:00 +0000", "update_interval": "0s", "backends": []}` +
		"]"
	if buf.String() != want {
		t.Fatalf("name-filtered JSON mismatch:\ngot:  %s\nwant: %s", buf.String(), want)
	}
}
