package plugin

import (
	"log/slog"

	"github.com/gavioto/sysdb/internal/llist"
	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/status"
)

// Runtime is the daemon's plugin runtime: the all-plugins registry, the
// eight callback registries, and the collector scheduler. One Runtime
// exists per daemon process.
type Runtime struct {
	logger *slog.Logger

	contexts *llist.List[*Context]

	configs    *Registry[ConfigFunc]
	inits      *Registry[InitFunc]
	shutdowns  *Registry[ShutdownFunc]
	logs       *Registry[LogFunc]
	cnames     *Registry[CnameFunc]
	collectors *Registry[CollectFunc]
	tsFetchers *Registry[TSFetcherFunc]
	writers    *Registry[Writer]

	scheduler *Scheduler
}

// New creates an empty Runtime. logger may be nil.
func New(logger *slog.Logger) *Runtime {
	rt := &Runtime{
		logger:     logging.Default(logger).With("component", "plugin"),
		contexts:   llist.New[*Context](),
		configs:    NewRegistry[ConfigFunc](),
		inits:      NewRegistry[InitFunc](),
		shutdowns:  NewRegistry[ShutdownFunc](),
		logs:       NewRegistry[LogFunc](),
		cnames:     NewRegistry[CnameFunc](),
		collectors: NewRegistry[CollectFunc](),
		tsFetchers: NewRegistry[TSFetcherFunc](),
		writers:    NewRegistry[Writer](),
	}
	rt.scheduler = newScheduler(rt)
	return rt
}

// RegisterConfig registers a config callback under name, attributed to
// ctx. ctx may be nil for core-registered built-ins.
func (rt *Runtime) RegisterConfig(name string, ctx *Context, cb ConfigFunc) error {
	return rt.configs.Register(name, ctx, cb)
}

// RegisterInit registers an init callback.
func (rt *Runtime) RegisterInit(name string, ctx *Context, cb InitFunc) error {
	return rt.inits.Register(name, ctx, cb)
}

// RegisterShutdown registers a shutdown callback.
func (rt *Runtime) RegisterShutdown(name string, ctx *Context, cb ShutdownFunc) error {
	return rt.shutdowns.Register(name, ctx, cb)
}

// RegisterLog registers a log callback.
func (rt *Runtime) RegisterLog(name string, ctx *Context, cb LogFunc) error {
	return rt.logs.Register(name, ctx, cb)
}

// RegisterCname registers a cname-rewriter callback.
func (rt *Runtime) RegisterCname(name string, ctx *Context, cb CnameFunc) error {
	return rt.cnames.Register(name, ctx, cb)
}

// RegisterTSFetcher registers a named time-series fetcher.
func (rt *Runtime) RegisterTSFetcher(name string, ctx *Context, cb TSFetcherFunc) error {
	return rt.tsFetchers.Register(name, ctx, cb)
}

// RegisterWriter registers a store-writer vtable under name. All six
// vtable slots must be populated or registration fails.
func (rt *Runtime) RegisterWriter(name string, ctx *Context, w Writer) error {
	if !w.valid() {
		return ErrInvalidArgument
	}
	return rt.writers.Register(name, ctx, w)
}

// RegisterCollector registers a collector under name with the given
// interval (falling back to defaultInterval when zero) and adds it to
// the scheduler.
func (rt *Runtime) RegisterCollector(name string, ctx *Context, cb CollectFunc, interval int64, userData any) error {
	if err := rt.collectors.Register(name, ctx, cb); err != nil {
		return err
	}
	rt.scheduler.add(&collectorEntry{
		name:       name,
		ctx:        ctx,
		cb:         cb,
		userData:   userData,
		interval:   interval,
		nextUpdate: nowNanos(),
	})
	return nil
}

// Emit broadcasts a log record to every registered log callback. If none
// consume it, it's written to stderr as a fallback.
func (rt *Runtime) Emit(priority logging.Priority, message string) {
	consumed := false
	rt.logs.Each(func(_ string, ctx *Context, cb LogFunc) {
		var userData any
		if ctx != nil {
			userData = ctx.Config().UserData
		}
		cb(ctx, priority, message, userData)
		consumed = true
	})
	if !consumed {
		fallbackLog(priority, message)
	}
}

// RewriteHostname runs the hostname through every registered
// cname-rewriter in registration order, taking the first rewrite that
// applies.
func (rt *Runtime) RewriteHostname(hostname string) string {
	result := hostname
	applied := false
	rt.cnames.Each(func(_ string, ctx *Context, cb CnameFunc) {
		if applied {
			return
		}
		if rewritten, ok := cb(ctx, result); ok {
			result = rewritten
			applied = true
		}
	})
	return result
}

// Scheduler returns the runtime's collector scheduler.
func (rt *Runtime) Scheduler() *Scheduler { return rt.scheduler }

// writerResults runs fn against every registered writer and aggregates
// the outcome per the write fan-out rule (§4.3.6).
func (rt *Runtime) writerResults(fn func(Writer, *Context) status.Status) status.Status {
	var results []status.Status
	rt.writers.Each(func(_ string, ctx *Context, w Writer) {
		results = append(results, fn(w, ctx))
	})
	if len(results) == 0 {
		return status.Success
	}
	return status.Worst(results)
}

// StoreHost fans a host write out to every registered writer.
func (rt *Runtime) StoreHost(hostname string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreHost(ctx, hostname, lastUpdate)
	})
}

// StoreService fans a service write out to every registered writer.
func (rt *Runtime) StoreService(hostname, service string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreService(ctx, hostname, service, lastUpdate)
	})
}

// StoreMetric fans a metric write out to every registered writer.
func (rt *Runtime) StoreMetric(hostname, metric string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreMetric(ctx, hostname, metric, lastUpdate)
	})
}

// StoreAttribute fans a host-attribute write out to every registered writer.
func (rt *Runtime) StoreAttribute(hostname, name, value string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreAttribute(ctx, hostname, name, value, lastUpdate)
	})
}

// StoreServiceAttr fans a service-attribute write out to every registered writer.
func (rt *Runtime) StoreServiceAttr(hostname, service, name, value string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreServiceAttr(ctx, hostname, service, name, value, lastUpdate)
	})
}

// StoreMetricAttr fans a metric-attribute write out to every registered writer.
func (rt *Runtime) StoreMetricAttr(hostname, metric, name, value string, lastUpdate int64) status.Status {
	return rt.writerResults(func(w Writer, ctx *Context) status.Status {
		return w.StoreMetricAttr(ctx, hostname, metric, name, value, lastUpdate)
	})
}
