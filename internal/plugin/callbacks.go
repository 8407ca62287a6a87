package plugin

import (
	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/status"
)

// ConfigItem is an opaque parsed configuration block handed to a config
// callback; the config-file grammar itself lives in internal/config. A
// nil item signals "deconfigure" during reconfigure-init.
type ConfigItem struct {
	Name string
	Args map[string]string
}

// ConfigFunc validates and applies one configuration block.
type ConfigFunc func(ctx *Context, item *ConfigItem) status.Status

// InitFunc is an init callback, registered through RegisterInit. The
// runtime keeps the registry but does not invoke init callbacks itself.
type InitFunc func(ctx *Context, userData any) status.Status

// ShutdownFunc is a shutdown callback, registered through
// RegisterShutdown. The runtime keeps the registry but does not invoke
// shutdown callbacks itself.
type ShutdownFunc func(ctx *Context, userData any) status.Status

// LogFunc receives every log record broadcast through Runtime.Emit;
// records written through the daemon's *slog.Logger do not reach it.
type LogFunc func(ctx *Context, priority logging.Priority, message string, userData any) status.Status

// CnameFunc rewrites a hostname passed to Runtime.RewriteHostname, or
// returns ok=false to leave it unchanged. The Runtime.Store* fan-out
// methods do not call the rewriters.
type CnameFunc func(ctx *Context, hostname string) (rewritten string, ok bool)

// CollectFunc is invoked by the scheduler on the collector's interval.
type CollectFunc func(ctx *Context, userData any) status.Status

// FetchOptions parametrizes a time-series fetch (range, resolution);
// left minimal since the query subsystem that drives it is out of scope.
type FetchOptions struct {
	Start, End int64 // unix nanoseconds
}

// TSFetcherFunc returns a named time series implementation's data for
// the given series id and options.
type TSFetcherFunc func(ctx *Context, id string, opts FetchOptions) (any, status.Status)

// Writer is the six-function vtable every store-writer plugin must
// implement in full; a partially-nil vtable is rejected at registration.
type Writer struct {
	StoreHost         func(ctx *Context, hostname string, lastUpdate int64) status.Status
	StoreService      func(ctx *Context, hostname, service string, lastUpdate int64) status.Status
	StoreMetric       func(ctx *Context, hostname, metric string, lastUpdate int64) status.Status
	StoreAttribute    func(ctx *Context, hostname, name, value string, lastUpdate int64) status.Status
	StoreServiceAttr  func(ctx *Context, hostname, service, name, value string, lastUpdate int64) status.Status
	StoreMetricAttr   func(ctx *Context, hostname, metric, name, value string, lastUpdate int64) status.Status
}

// valid reports whether every slot of the vtable is populated.
func (w Writer) valid() bool {
	return w.StoreHost != nil && w.StoreService != nil && w.StoreMetric != nil &&
		w.StoreAttribute != nil && w.StoreServiceAttr != nil && w.StoreMetricAttr != nil
}
