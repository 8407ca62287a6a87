package store

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/metrics"
	"github.com/gavioto/sysdb/internal/status"
)

// Store is the daemon's in-memory host inventory — the core writer
// every other writer (remote backends registered through the plugin
// runtime's writer vtable) fans out alongside, per §4.3.6.
type Store struct {
	logger *slog.Logger

	mu    sync.RWMutex
	hosts []*Host
}

// New creates an empty Store.
func New(logger *slog.Logger) *Store {
	return &Store{logger: logging.Default(logger).With("component", "store")}
}

func (s *Store) findHostLocked(name string) *Host {
	for _, h := range s.hosts {
		if strings.EqualFold(h.name, name) {
			return h
		}
	}
	return nil
}

// Host looks up a host by name (case-insensitive), without creating it.
func (s *Store) Host(name string) (*Host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.findHostLocked(name)
	return h, h != nil
}

// Hosts returns a snapshot slice of every host in insertion order.
func (s *Store) Hosts() []*Host {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Host(nil), s.hosts...)
}

// StoreHost creates hostname if it doesn't exist, or applies a monotonic
// last_update to it if it does.
func (s *Store) StoreHost(hostname string, ts int64) status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.findHostLocked(hostname)
	if h == nil {
		h = newHost(hostname, 0)
		s.hosts = append(s.hosts, h)
		metrics.HostsGauge.Set(float64(len(s.hosts)))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	result := h.update(ts)
	metrics.WritesTotal.WithLabelValues("host", result.String()).Inc()
	return result
}

// resolveHost returns the named host, or (nil, NotFound) if it doesn't
// exist — used by every operation that requires a parent to already be
// present (§4.4.1 step 1: "fail with no parent if a qualifier is
// missing").
func (s *Store) resolveHost(hostname string) (*Host, status.Status) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.findHostLocked(hostname)
	if h == nil {
		return nil, status.NotFound
	}
	return h, status.Success
}

// StoreService creates or updates a service under hostname.
func (s *Store) StoreService(hostname, service string, ts int64) status.Status {
	h, st := s.resolveHost(hostname)
	if st != status.Success {
		return st
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	svc := h.findService(service)
	if svc == nil {
		svc = newService(service, 0)
		h.services = append(h.services, svc)
	}
	result := svc.update(ts)
	metrics.WritesTotal.WithLabelValues("service", result.String()).Inc()
	return result
}

// StoreMetric creates or updates a metric under hostname. storeRef, if
// non-empty, replaces the metric's backing time-series reference;
// passing "" on an update preserves whatever reference was already set.
func (s *Store) StoreMetric(hostname, metric, storeRef string, ts int64) status.Status {
	h, st := s.resolveHost(hostname)
	if st != status.Success {
		return st
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.findMetric(metric)
	if m == nil {
		m = newMetric(metric, 0)
		h.metrics = append(h.metrics, m)
	}
	result := m.update(ts)
	if result == status.Success && storeRef != "" {
		m.storeRef = storeRef
	}
	metrics.WritesTotal.WithLabelValues("metric", result.String()).Inc()
	return result
}

// StoreAttribute creates or updates a host-level attribute.
func (s *Store) StoreAttribute(hostname, name string, value Value, ts int64) status.Status {
	h, st := s.resolveHost(hostname)
	if st != status.Success {
		return st
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	a := h.findAttribute(name)
	if a == nil {
		a = newAttribute(name, value, 0)
		h.attributes = append(h.attributes, a)
	}
	result := a.update(ts)
	if result == status.Success {
		a.value = value
	}
	metrics.WritesTotal.WithLabelValues("attribute", result.String()).Inc()
	return result
}

// StoreServiceAttr creates or updates an attribute of a service.
func (s *Store) StoreServiceAttr(hostname, service, name string, value Value, ts int64) status.Status {
	h, st := s.resolveHost(hostname)
	if st != status.Success {
		return st
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	svc := h.findService(service)
	if svc == nil {
		return status.NotFound
	}
	a := svc.findAttribute(name)
	if a == nil {
		a = newAttribute(name, value, 0)
		svc.attributes = append(svc.attributes, a)
	}
	result := a.update(ts)
	if result == status.Success {
		a.value = value
	}
	metrics.WritesTotal.WithLabelValues("service_attribute", result.String()).Inc()
	return result
}

// StoreMetricAttr creates or updates an attribute of a metric.
func (s *Store) StoreMetricAttr(hostname, metric, name string, value Value, ts int64) status.Status {
	h, st := s.resolveHost(hostname)
	if st != status.Success {
		return st
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.findMetric(metric)
	if m == nil {
		return status.NotFound
	}
	a := m.findAttribute(name)
	if a == nil {
		a = newAttribute(name, value, 0)
		m.attributes = append(m.attributes, a)
	}
	result := a.update(ts)
	if result == status.Success {
		a.value = value
	}
	metrics.WritesTotal.WithLabelValues("metric_attribute", result.String()).Inc()
	return result
}
