// Package plugin implements the daemon's plugin runtime: dynamic module
// loading, the per-plugin context, the eight callback registries, the
// collector scheduler, and the reconfiguration protocol.
//
// The original runtime (core/plugin.c) attributes a registration call to
// its caller through a pthread_key_t thread-local slot, set before and
// restored after every callback invocation. Go has no equivalent of a
// plugin calling back into the runtime from arbitrary stack depth without
// an explicit handle, so that slot is replaced by explicit context
// threading: every Register* call takes the *Context of the plugin doing
// the registering, and every registered callback is invoked with that
// same *Context passed as an ordinary argument. The attribution rule is
// unchanged — only the plumbing is.
package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/object"
)

// DaemonVersion is this build's protocol version, compared against a
// plugin's declared version as version/100 (major.minor, dropping patch).
const DaemonVersion = 1_02_00

// Info is the mutable plugin metadata record a module fills in from its
// init entry point. Unset string fields are rendered as "<field> not
// set" wherever logged, matching the original's placeholder behavior.
type Info struct {
	Description   string
	Copyright     string
	License       string
	PluginVersion int
	DaemonVersion int
}

func (i Info) field(name, value string) string {
	if value == "" {
		return name + " not set"
	}
	return value
}

// LogString renders Info the way the runtime logs it on load.
func (i Info) LogString() string {
	return fmt.Sprintf("description=%q copyright=%q license=%q plugin_version=%d daemon_version=%d",
		i.field("description", i.Description),
		i.field("copyright", i.Copyright),
		i.field("license", i.License),
		i.PluginVersion, i.DaemonVersion)
}

// Config is the per-plugin configuration block: a polling interval and
// timeout shared by every collector the plugin registers, plus an opaque
// slot for the plugin's own private data.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
	UserData any
}

// Context is the runtime's record of one loaded plugin. Every callback a
// plugin registers holds a strong reference to its Context, so the
// Context's refcount only drops to zero once every registration referring
// to it has been unregistered.
type Context struct {
	obj *object.Object

	Name string
	File string
	Info Info

	handle *plugin.Plugin
	initFn ModuleInitFunc

	mu     sync.Mutex
	config Config

	// useCount is distinct from the refcount: it is raised by one each
	// time the plugin is loaded (or reloaded) and each time a callback is
	// registered for it, and Unregister never lowers it. ReconfigureInit
	// zeroes it; ReconfigureFinish unregisters any Context whose
	// useCount is still zero afterward.
	useCount atomic.Int32
}

func newContext(name, file string, handle *plugin.Plugin, info Info) *Context {
	ctx := &Context{Name: name, File: file, handle: handle, Info: info}
	ctx.obj = object.New(name, func() {})
	return ctx
}

// ListName satisfies llist.Named so contexts can be looked up by name.
func (c *Context) ListName() string { return c.Name }

// Acquire takes a strong reference to the context.
func (c *Context) Acquire() { c.obj.Acquire() }

// Release drops a strong reference to the context.
func (c *Context) Release() { c.obj.Release() }

// RefCount reports the context's current reference count.
func (c *Context) RefCount() int32 { return c.obj.RefCount() }

// UseCount reports how many loads and callback registrations have been
// attributed to this plugin since its use count was last reset.
func (c *Context) UseCount() int32 { return c.useCount.Load() }

// Config returns a copy of the plugin's current configuration block.
func (c *Context) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// SetConfig replaces the plugin's configuration block.
func (c *Context) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = cfg
}

func (c *Context) incrUse() { c.useCount.Add(1) }

// moduleInitSymbol is the exported entry point every plugin .so must
// provide: func(*plugin.Runtime, *plugin.Context) (plugin.Info, error).
const moduleInitSymbol = "SdbModuleInit"

// ModuleInitFunc is the signature a plugin's exported init symbol must
// have. The plugin calls back into rt to register its callbacks before
// returning.
type ModuleInitFunc func(rt *Runtime, ctx *Context) (Info, error)

// pluginPath maps a plugin name such as "backend::mysql::collector" to
// <basedir>/backend/mysql/collector.so.
func pluginPath(baseDir, name string) string {
	parts := strings.Split(name, "::")
	rel := filepath.Join(parts...) + ".so"
	return filepath.Join(baseDir, rel)
}

// versionMismatch reports whether declared and daemon version disagree
// at the major.minor granularity (integer division by 100), matching the
// original's comparison.
func versionMismatch(declared, daemon int) bool {
	return declared != 0 && declared/100 != daemon/100
}

// LoadPlugin opens the shared object for name under baseDir, resolves its
// init symbol, and invokes it. On success the plugin's context is added
// to the all-plugins registry. Reloading an already-loaded plugin invokes
// init again against the original context and bumps the context's use
// count, per the reconfiguration protocol's "survivors keep their
// context" rule.
func (rt *Runtime) LoadPlugin(name, baseDir string) (*Context, error) {
	path := pluginPath(baseDir, name)

	if existing, ok := rt.contexts.SearchByName(name); ok {
		info, err := existing.initFn(rt, existing)
		if err != nil {
			return nil, fmt.Errorf("plugin: reload %s: %w", name, err)
		}
		existing.Info = info
		existing.incrUse()
		rt.warnOnVersionMismatch(existing)
		return existing, nil
	}

	handle, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: open %s: %w", path, err)
	}

	sym, err := handle.Lookup(moduleInitSymbol)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s has no %s symbol: %w", name, moduleInitSymbol, err)
	}
	initFn, ok := sym.(func(*Runtime, *Context) (Info, error))
	if !ok {
		return nil, fmt.Errorf("plugin: %s: %s has unexpected signature", name, moduleInitSymbol)
	}

	ctx := newContext(name, path, handle, Info{})
	ctx.initFn = initFn
	info, err := initFn(rt, ctx)
	if err != nil {
		return nil, fmt.Errorf("plugin: init %s: %w", name, err)
	}
	ctx.Info = info
	ctx.incrUse()

	rt.contexts.Append(ctx)
	rt.warnOnVersionMismatch(ctx)
	rt.logger.Info("plugin loaded", "plugin", name, "info", info.LogString())
	return ctx, nil
}

func (rt *Runtime) warnOnVersionMismatch(ctx *Context) {
	if versionMismatch(ctx.Info.PluginVersion, DaemonVersion) {
		rt.logger.Warn("plugin version mismatch",
			"plugin", ctx.Name,
			"plugin_version", ctx.Info.PluginVersion,
			"daemon_version", DaemonVersion)
	}
}

// ErrNotFound is the sentinel for a plugin, callback, or collector that
// does not currently exist in the runtime; no operation in this package
// returns it.
var ErrNotFound = errors.New("plugin: not found")

// fallbackLog writes a log record to stderr when no registered log
// callback consumed it, matching the runtime's broadcast-with-fallback
// behavior (§7).
func fallbackLog(p logging.Priority, msg string) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", p, msg)
}
