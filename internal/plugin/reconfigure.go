package plugin

// ReconfigureInit begins a reconfiguration cycle (§4.3.5): every
// registered config callback is invoked once with a nil item (meaning
// "deconfigure"), then every known plugin context's use count is reset
// to zero, then every callback across all eight registries is
// unregistered. Plugins that re-register during the reload that follows
// will raise their context's use count again; ReconfigureFinish later
// drops anything that didn't.
func (rt *Runtime) ReconfigureInit() {
	rt.configs.Each(func(_ string, ctx *Context, cb ConfigFunc) {
		cb(ctx, nil)
	})

	for it := rt.contexts.Iter(); it.HasNext(); {
		ctx, _ := it.Next()
		ctx.useCount.Store(0)
	}

	rt.configs.UnregisterAll()
	rt.inits.UnregisterAll()
	rt.shutdowns.UnregisterAll()
	rt.logs.UnregisterAll()
	rt.cnames.UnregisterAll()
	rt.collectors.UnregisterAll()
	rt.tsFetchers.UnregisterAll()
	rt.writers.UnregisterAll()

	rt.scheduler.list.Clear(nil)
}

// ReconfigureFinish ends a reconfiguration cycle: every plugin context
// whose use count is still zero — meaning nothing re-registered a
// callback against it during the reload — is unregistered from the
// all-plugins list and its shared-library handle is closed.
//
// Unregistration during this walk is only permitted for the element
// currently under the iterator; the iterator tolerates exactly that
// (RemoveCurrent), which is why this walk uses it directly rather than a
// snapshot-then-remove pattern.
func (rt *Runtime) ReconfigureFinish() {
	for it := rt.contexts.Iter(); it.HasNext(); {
		ctx, _ := it.Next()
		if ctx.UseCount() > 0 {
			continue
		}
		it.RemoveCurrent()
		rt.closePlugin(ctx)
	}
}

func (rt *Runtime) closePlugin(ctx *Context) {
	rt.logger.Info("unloading plugin with no surviving registrations", "plugin", ctx.Name)
	// The stdlib plugin package exposes no Close; handles live for the
	// process lifetime. Dropping the last reference here just means the
	// runtime stops tracking it — matches Go's dlclose-is-a-no-op reality
	// for plugin.Open, which the original's dlclose call doesn't have.
	_ = ctx
}
