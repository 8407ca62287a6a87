// Command sysdbd runs the configuration-management database daemon.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to all components via dependency injection
//   - No global slog configuration (no slog.SetDefault)
//   - Components scope loggers with their own attributes
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gavioto/sysdb/internal/config"
	"github.com/gavioto/sysdb/internal/frontend"
	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/metrics"
	"github.com/gavioto/sysdb/internal/plugin"
	"github.com/gavioto/sysdb/internal/store"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	baseHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	filterHandler := logging.NewComponentFilterHandler(baseHandler, slog.LevelInfo)
	logger := slog.New(filterHandler)

	rootCmd := &cobra.Command{
		Use:   "sysdbd",
		Short: "Configuration-management database daemon",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daemon until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			pidFile, _ := cmd.Flags().GetString("pidfile")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, logger, configPath, metricsAddr, pidFile)
		},
	}
	runCmd.Flags().String("config", "", "path to the daemon's YAML config file (required)")
	runCmd.Flags().String("metrics-addr", "127.0.0.1:9299", "address for the debug /metrics HTTP listener")
	runCmd.Flags().String("pidfile", "", "write the daemon's PID to this path; required for the reload subcommand")
	_ = runCmd.MarkFlagRequired("config")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sysdbd %s (protocol %d)\n", version, plugin.DaemonVersion)
		},
	}

	reloadCmd := &cobra.Command{
		Use:   "reload",
		Short: "Signal a running daemon to reload its config",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidFile, _ := cmd.Flags().GetString("pidfile")
			return reloadRunning(pidFile)
		},
	}
	reloadCmd.Flags().String("pidfile", "", "path to the running daemon's pidfile (required)")
	_ = reloadCmd.MarkFlagRequired("pidfile")

	rootCmd.AddCommand(runCmd, versionCmd, reloadCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// reloadRunning signals a SIGHUP to the daemon whose PID is recorded in
// pidFile, the same way an operator would with any long-running Unix
// daemon that reloads its config on SIGHUP.
func reloadRunning(pidFile string) error {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return fmt.Errorf("read pidfile: %w", err)
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("parse pidfile %s: %w", pidFile, err)
	}
	if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}

func writePidFile(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func run(ctx context.Context, logger *slog.Logger, configPath, metricsAddr, pidFile string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st := store.New(logger)
	rt := plugin.New(logger)
	loadPlugins(logger, rt, cfg, st)

	watcher := config.NewWatcher(logger, configPath, func(newCfg *config.Config) {
		reloadPlugins(logger, rt, newCfg, st)
	})
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	defer watcher.Stop()

	if err := writePidFile(pidFile); err != nil {
		return fmt.Errorf("write pidfile: %w", err)
	}
	if pidFile != "" {
		defer func() { _ = os.Remove(pidFile) }()
	}

	metricsSrv := metrics.NewServer(metricsAddr)

	frontendSrv := frontend.NewServer(logger, frontend.NewStoreHandler(st))
	if err := frontendSrv.Listen(cfg.ListenAddress); err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddress, err)
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return frontendSrv.Serve(gctx)
	})

	group.Go(func() error {
		return metricsSrv.ListenAndServe()
	})

	group.Go(func() error {
		err := rt.Scheduler().Run()
		if errors.Is(err, plugin.ErrNoCollectors) {
			logger.Warn("no collectors registered; scheduler idle")
			<-gctx.Done()
			return nil
		}
		return err
	})

	group.Go(func() error {
		return watchHangup(gctx, logger, rt, st, configPath)
	})

	<-ctx.Done()
	logger.Info("shutting down")
	rt.Scheduler().Stop()
	_ = metricsSrv.Shutdown(context.Background())

	return group.Wait()
}

// watchHangup reloads the plugin runtime every time the process receives
// SIGHUP, the same trigger the reload subcommand sends.
func watchHangup(ctx context.Context, logger *slog.Logger, rt *plugin.Runtime, st *store.Store, configPath string) error {
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hupCh:
			fresh, err := config.Load(configPath)
			if err != nil {
				logger.Error("reload: config load failed", "err", err)
				continue
			}
			reloadPlugins(logger, rt, fresh, st)
		}
	}
}
