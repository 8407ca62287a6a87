package store

import (
	"strconv"

	"github.com/gavioto/sysdb/internal/plugin"
	"github.com/gavioto/sysdb/internal/status"
)

// parseValue turns a writer-vtable's plain string value into a typed
// Value, the same way the original's collectors hand integers to the
// store as decimal strings: a value that parses cleanly as a base-10
// integer is stored as one, everything else as a string.
func parseValue(raw string) Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(n)
	}
	return StringValue(raw)
}

// AsWriter adapts the store to the plugin runtime's six-function Writer
// vtable, so collectors that call Runtime.StoreHost/StoreService/...
// reach this store the same way any remote backend plugin would
// (§4.3.6's write fan-out, with the in-memory store as one fixed,
// always-registered writer).
func (s *Store) AsWriter() plugin.Writer {
	return plugin.Writer{
		StoreHost: func(_ *plugin.Context, hostname string, lastUpdate int64) status.Status {
			return s.StoreHost(hostname, lastUpdate)
		},
		StoreService: func(_ *plugin.Context, hostname, service string, lastUpdate int64) status.Status {
			return s.StoreService(hostname, service, lastUpdate)
		},
		StoreMetric: func(_ *plugin.Context, hostname, metric string, lastUpdate int64) status.Status {
			return s.StoreMetric(hostname, metric, "", lastUpdate)
		},
		StoreAttribute: func(_ *plugin.Context, hostname, name, value string, lastUpdate int64) status.Status {
			return s.StoreAttribute(hostname, name, parseValue(value), lastUpdate)
		},
		StoreServiceAttr: func(_ *plugin.Context, hostname, service, name, value string, lastUpdate int64) status.Status {
			return s.StoreServiceAttr(hostname, service, name, parseValue(value), lastUpdate)
		},
		StoreMetricAttr: func(_ *plugin.Context, hostname, metric, name, value string, lastUpdate int64) status.Status {
			return s.StoreMetricAttr(hostname, metric, name, parseValue(value), lastUpdate)
		},
	}
}
