// Package store implements the daemon's in-memory host/service/metric/
// attribute inventory: case-insensitive name uniqueness, monotonic
// last-update tracking, a matcher tree for selecting and filtering
// entities, and a JSON serializer matching the original formatter's
// exact fixture output.
//
// Ownership follows §5's stated lock model: one lock per host guards
// that host and everything reachable under it (its services, metrics,
// host-level attributes, and transitively each service's and metric's
// own attributes). A single host-wide lock is coarser than the source's
// per-collection locking, but the source never takes two of those locks
// at once either, so there's no concurrency actually given up — only
// lock objects.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/gavioto/sysdb/internal/status"
)

// Entity is implemented by every store object reachable from a scan or
// matcher: Host, Service, Metric, and Attribute.
type Entity interface {
	EntityName() string
	EntityLastUpdate() int64
}

type base struct {
	name           string
	written        bool
	lastUpdate     int64
	updateInterval time.Duration
	backends       []string
}

func (b *base) EntityName() string       { return b.name }
func (b *base) EntityLastUpdate() int64  { return b.lastUpdate }
func (b *base) UpdateInterval() time.Duration { return b.updateInterval }
func (b *base) Backends() []string       { return append([]string(nil), b.backends...) }

// update applies a candidate timestamp to b under the monotonicity rule
// (§4.4.1, §8): ts <= lastUpdate is rejected as stale and leaves b
// unchanged; ts > lastUpdate updates lastUpdate and derives
// updateInterval from the gap to the previous value (zero on an
// entity's very first write, since there is no previous value to diff
// against).
func (b *base) update(ts int64) status.Status {
	if b.written && ts <= b.lastUpdate {
		return status.Stale
	}
	if b.written {
		b.updateInterval = time.Duration(ts - b.lastUpdate)
	}
	b.lastUpdate = ts
	b.written = true
	return status.Success
}

// ListName satisfies llist.Named for case-insensitive lookup.
func (b *base) ListName() string { return b.name }

// Attribute is a name/value pair owned by a Host, Service, or Metric.
type Attribute struct {
	base
	value Value
}

func newAttribute(name string, value Value, ts int64) *Attribute {
	return &Attribute{base: base{name: name, lastUpdate: ts}, value: value}
}

// Value returns the attribute's current typed value.
func (a *Attribute) Value() Value { return a.value }

// Metric is a named time-series handle owned by a Host.
type Metric struct {
	base
	mu         sync.Mutex
	storeRef   string
	attributes []*Attribute
}

func newMetric(name string, ts int64) *Metric {
	return &Metric{base: base{name: name, lastUpdate: ts}}
}

// StoreRef returns the metric's backing time-series store reference, if
// any was supplied.
func (m *Metric) StoreRef() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeRef
}

// Attributes returns a snapshot slice of the metric's attributes in
// insertion order.
func (m *Metric) Attributes() []*Attribute {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Attribute(nil), m.attributes...)
}

func (m *Metric) findAttribute(name string) *Attribute {
	for _, a := range m.attributes {
		if strings.EqualFold(a.name, name) {
			return a
		}
	}
	return nil
}

// Service is a named service owned by a Host.
type Service struct {
	base
	mu         sync.Mutex
	attributes []*Attribute
}

func newService(name string, ts int64) *Service {
	return &Service{base: base{name: name, lastUpdate: ts}}
}

// Attributes returns a snapshot slice of the service's attributes in
// insertion order.
func (s *Service) Attributes() []*Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Attribute(nil), s.attributes...)
}

func (s *Service) findAttribute(name string) *Attribute {
	for _, a := range s.attributes {
		if strings.EqualFold(a.name, name) {
			return a
		}
	}
	return nil
}

// Host is the root of a host's service/metric/attribute tree and the
// daemon's unit of locking.
type Host struct {
	base

	mu         sync.RWMutex
	services   []*Service
	metrics    []*Metric
	attributes []*Attribute
}

func newHost(name string, ts int64) *Host {
	return &Host{base: base{name: name, lastUpdate: ts}}
}

// Services returns a snapshot slice of the host's services in insertion order.
func (h *Host) Services() []*Service {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Service(nil), h.services...)
}

// Metrics returns a snapshot slice of the host's metrics in insertion order.
func (h *Host) Metrics() []*Metric {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Metric(nil), h.metrics...)
}

// Attributes returns a snapshot slice of the host's attributes in
// insertion order.
func (h *Host) Attributes() []*Attribute {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Attribute(nil), h.attributes...)
}

func (h *Host) findService(name string) *Service {
	for _, s := range h.services {
		if strings.EqualFold(s.name, name) {
			return s
		}
	}
	return nil
}

func (h *Host) findMetric(name string) *Metric {
	for _, m := range h.metrics {
		if strings.EqualFold(m.name, name) {
			return m
		}
	}
	return nil
}

func (h *Host) findAttribute(name string) *Attribute {
	for _, a := range h.attributes {
		if strings.EqualFold(a.name, name) {
			return a
		}
	}
	return nil
}
