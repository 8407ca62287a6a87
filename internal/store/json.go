package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gavioto/sysdb/internal/metrics"
	"github.com/gavioto/sysdb/internal/status"
)

var kindLabels = map[Kind]string{
	KindHost:    "host",
	KindService: "service",
	KindMetric:  "metric",
}

// timeLayout renders last_update as ISO-8601-ish "YYYY-MM-DD hh:mm:ss
// +ZZZZ", matching the original formatter's strftime call exactly
// (including the literal "+0000" for UTC rather than "Z").
const timeLayout = "2006-01-02 15:04:05 -0700"

func formatTime(ns int64) string {
	return time.Unix(0, ns).UTC().Format(timeLayout)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsonStringArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(jsonString(it))
	}
	buf.WriteByte(']')
	return buf.String()
}

// objectWriter accumulates "key": value pairs into a JSON object,
// inserting ", " between fields and nothing before the first — the
// formatter writes directly into the output buffer rather than building
// an intermediate map, since field order here is significant and fixed
// by entity kind, not alphabetical the way a map-based marshaler would
// render it.
type objectWriter struct {
	buf   *bytes.Buffer
	wrote bool
}

func newObjectWriter(buf *bytes.Buffer) *objectWriter {
	buf.WriteByte('{')
	return &objectWriter{buf: buf}
}

func (w *objectWriter) field(key, rawValue string) {
	if w.wrote {
		w.buf.WriteString(", ")
	}
	w.buf.WriteByte('"')
	w.buf.WriteString(key)
	w.buf.WriteString(`": `)
	w.buf.WriteString(rawValue)
	w.wrote = true
}

func (w *objectWriter) close() {
	w.buf.WriteByte('}')
}

func filterAttributes(atts []*Attribute, filter Matcher) []*Attribute {
	out := make([]*Attribute, 0, len(atts))
	for _, a := range atts {
		if Evaluate(filter, a) {
			out = append(out, a)
		}
	}
	return out
}

func filterServices(svcs []*Service, filter Matcher) []*Service {
	out := make([]*Service, 0, len(svcs))
	for _, s := range svcs {
		if Evaluate(filter, s) {
			out = append(out, s)
		}
	}
	return out
}

func filterMetrics(mets []*Metric, filter Matcher) []*Metric {
	out := make([]*Metric, 0, len(mets))
	for _, m := range mets {
		if Evaluate(filter, m) {
			out = append(out, m)
		}
	}
	return out
}

func writeAttributeJSON(buf *bytes.Buffer, a *Attribute) {
	w := newObjectWriter(buf)
	w.field("name", jsonString(a.name))
	w.field("value", valueJSON(a.value))
	w.field("last_update", jsonString(formatTime(a.lastUpdate)))
	w.field("update_interval", jsonString(a.updateInterval.String()))
	w.field("backends", jsonStringArray(a.backends))
	w.close()
}

func valueJSON(v Value) string {
	if v.Kind == ValueInteger {
		return strconv.FormatInt(v.Integer, 10)
	}
	return jsonString(v.Str)
}

func writeAttributesArray(buf *bytes.Buffer, atts []*Attribute) {
	buf.WriteByte('[')
	for i, a := range atts {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeAttributeJSON(buf, a)
	}
	buf.WriteByte(']')
}

func writeServiceJSON(buf *bytes.Buffer, svc *Service, filter Matcher, full bool) {
	w := newObjectWriter(buf)
	w.field("name", jsonString(svc.name))
	w.field("last_update", jsonString(formatTime(svc.lastUpdate)))
	w.field("update_interval", jsonString(svc.updateInterval.String()))
	w.field("backends", jsonStringArray(svc.backends))
	if full {
		atts := filterAttributes(svc.Attributes(), filter)
		if len(atts) > 0 {
			var sub bytes.Buffer
			writeAttributesArray(&sub, atts)
			w.field("attributes", sub.String())
		}
	}
	w.close()
}

func writeMetricJSON(buf *bytes.Buffer, m *Metric, filter Matcher, full bool) {
	w := newObjectWriter(buf)
	w.field("name", jsonString(m.name))
	w.field("timeseries", strconv.FormatBool(m.storeRef != ""))
	w.field("last_update", jsonString(formatTime(m.lastUpdate)))
	w.field("update_interval", jsonString(m.updateInterval.String()))
	w.field("backends", jsonStringArray(m.backends))
	if full {
		atts := filterAttributes(m.Attributes(), filter)
		if len(atts) > 0 {
			var sub bytes.Buffer
			writeAttributesArray(&sub, atts)
			w.field("attributes", sub.String())
		}
	}
	w.close()
}

// writeHostJSON renders h as a JSON object. Which child collections are
// included depends on kind: a host-kind scan emits all three (attributes,
// metrics, services), but a service- or metric-kind scan emits only the
// matching collection, leaving the host's own attributes and the other
// child array out entirely — mirroring the original formatter, where the
// emitted sections are keyed off the scan's requested object type rather
// than always rendering a host in full.
func writeHostJSON(buf *bytes.Buffer, h *Host, filter Matcher, full bool, kind Kind) {
	w := newObjectWriter(buf)
	w.field("name", jsonString(h.name))
	w.field("last_update", jsonString(formatTime(h.lastUpdate)))
	w.field("update_interval", jsonString(h.updateInterval.String()))
	w.field("backends", jsonStringArray(h.backends))

	if full {
		if kind == KindHost {
			atts := filterAttributes(h.Attributes(), filter)
			if len(atts) > 0 {
				var sub bytes.Buffer
				writeAttributesArray(&sub, atts)
				w.field("attributes", sub.String())
			}
		}

		if kind == KindHost || kind == KindMetric {
			mets := filterMetrics(h.Metrics(), filter)
			if len(mets) > 0 {
				var sub bytes.Buffer
				sub.WriteByte('[')
				for i, m := range mets {
					if i > 0 {
						sub.WriteByte(',')
					}
					writeMetricJSON(&sub, m, filter, true)
				}
				sub.WriteByte(']')
				w.field("metrics", sub.String())
			}
		}

		if kind == KindHost || kind == KindService {
			svcs := filterServices(h.Services(), filter)
			if len(svcs) > 0 {
				var sub bytes.Buffer
				sub.WriteByte('[')
				for i, svc := range svcs {
					if i > 0 {
						sub.WriteByte(',')
					}
					writeServiceJSON(&sub, svc, filter, true)
				}
				sub.WriteByte(']')
				w.field("services", sub.String())
			}
		}
	}

	w.close()
}

// FormatJSON scans the store and writes the matched hosts as a JSON
// array into buf (§4.4.3). full selects whether children are walked and
// emitted (recursively filtered by filter) or the entity is rendered
// standalone; kind additionally restricts which child collection a
// non-host scan renders (see writeHostJSON).
func (s *Store) FormatJSON(buf *bytes.Buffer, kind Kind, matcher, filter Matcher, full bool) status.Status {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ScanDuration.WithLabelValues(kindLabels[kind]))

	buf.WriteByte('[')
	first := true
	st := s.Scan(kind, matcher, filter, func(h *Host, filter Matcher) status.Status {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeHostJSON(buf, h, filter, full, kind)
		return status.Success
	})
	buf.WriteByte(']')
	return st
}
