package main

import (
	"log/slog"
	"time"

	"github.com/gavioto/sysdb/internal/config"
	"github.com/gavioto/sysdb/internal/plugin"
	"github.com/gavioto/sysdb/internal/store"
)

// storeWriterName is the registration name the built-in in-memory store
// uses on the writer vtable registry, alongside whatever remote-backend
// plugins the config also loads.
const storeWriterName = "store"

// parseDuration parses s, falling back to 0 (meaning "use the runtime's
// default interval") for an empty string, and logging and falling back
// the same way for a malformed one rather than failing the whole load.
func parseDuration(logger *slog.Logger, field, pluginName, s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Warn("ignoring malformed duration", "plugin", pluginName, "field", field, "value", s, "err", err)
		return 0
	}
	return d
}

// loadPlugins loads every plugin named in cfg and registers the store as
// the runtime's built-in writer, so any collector that calls
// Runtime.StoreHost/StoreService/... lands in st.
func loadPlugins(logger *slog.Logger, rt *plugin.Runtime, cfg *config.Config, st *store.Store) {
	if err := rt.RegisterWriter(storeWriterName, nil, st.AsWriter()); err != nil {
		logger.Error("register store writer", "err", err)
	}

	for _, pc := range cfg.Plugins {
		ctx, err := rt.LoadPlugin(pc.Name, cfg.PluginBaseDir)
		if err != nil {
			logger.Error("load plugin", "plugin", pc.Name, "err", err)
			continue
		}
		ctx.SetConfig(plugin.Config{
			Interval: parseDuration(logger, "interval", pc.Name, pc.Interval),
			Timeout:  parseDuration(logger, "timeout", pc.Name, pc.Timeout),
			UserData: pc.Params,
		})
	}
}

// reloadPlugins runs the reconfiguration cycle (§4.3.5) against a freshly
// loaded config: every currently registered callback is torn down, the
// configured plugin set is loaded again (survivors keep their Context,
// recovering their use count; anything no longer named is dropped), and
// the store writer is re-registered since ReconfigureInit clears the
// writer registry along with the other seven.
func reloadPlugins(logger *slog.Logger, rt *plugin.Runtime, cfg *config.Config, st *store.Store) {
	logger.Info("reconfiguring plugin runtime")
	rt.ReconfigureInit()
	loadPlugins(logger, rt, cfg, st)
	rt.ReconfigureFinish()
}
