package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/gavioto/sysdb/internal/logging"
)

// ReloadFunc is invoked with the freshly reloaded config whenever the
// watched file changes and reparses successfully.
type ReloadFunc func(*Config)

// Watcher reloads a config file on change and invokes onReload with the
// new value, mirroring the teacher's certificate-reload watcher
// (internal/cert.Manager.startWatcher): one fsnotify.Watcher, one stop
// channel, events filtered to Write/Create.
type Watcher struct {
	logger   *slog.Logger
	path     string
	onReload ReloadFunc

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewWatcher creates a Watcher for path. Call Start to begin watching.
func NewWatcher(logger *slog.Logger, path string, onReload ReloadFunc) *Watcher {
	return &Watcher{
		logger:   logging.Default(logger).With("component", "config-watcher"),
		path:     path,
		onReload: onReload,
	}
}

// Start begins watching the config file in a background goroutine.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.path); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw
	w.stopCh = make(chan struct{})

	go w.run()
	return nil
}

// Stop ends the watch goroutine and releases the underlying fsnotify
// watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.stopCh:
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "err", err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "err", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	w.onReload(cfg)
}
