// # cmd/refaudit/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"refaudit/internal/config"
	"refaudit/internal/report"
	"refaudit/internal/shared/observability"
)

var (
	configPath  = flag.String("config", "./refaudit.toml", "Path to config file")
	watch       = flag.Bool("watch", false, "Re-run the audit when sources change")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	metricsAddr = flag.String("metrics-addr", "", "Expose /metrics and /health on this address")
	historyPath = flag.String("history", "", "Path to the sqlite run-history database")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("refaudit v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./refaudit.toml" {
			// An explicitly named config that does not load is a
			// configuration error: report it, still write the empty
			// report, and terminate normally.
			slog.Error("failed to load config", "path", *configPath, "error", err)
			writeEmptyReport(config.Default())
			return
		}
		cfg = config.Default()
	}

	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}
	if *historyPath != "" {
		cfg.History.DB = *historyPath
	}

	if flag.NArg() == 0 {
		slog.Error("usage: refaudit [flags] <workspace-path>")
		writeEmptyReport(cfg)
		return
	}
	workspace := flag.Arg(0)
	if _, err := os.Stat(workspace); err != nil {
		slog.Error("workspace path does not exist", "path", workspace, "error", err)
		writeEmptyReport(cfg)
		return
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing init failed", "error", err)
	} else {
		defer shutdownTracing(ctx)
	}

	app, err := NewApp(cfg, workspace, *ui)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		writeEmptyReport(cfg)
		return
	}
	defer app.Close()

	if _, err := app.RunOnce(ctx); err != nil {
		slog.Error("audit failed", "error", err)
		writeEmptyReport(cfg)
		return
	}

	if !*watch && !*ui {
		return
	}

	if cfg.Observability.MetricsAddr != "" {
		srv := observability.NewServer(cfg.Observability.MetricsAddr, app.Health)
		if err := srv.Start(ctx); err != nil {
			slog.Warn("failed to start observability server", "error", err)
		} else {
			defer srv.Stop(ctx)
		}
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		select {}
	}
}

// writeEmptyReport keeps the output contract on configuration errors: the
// header-only table is still written and the process exits normally.
func writeEmptyReport(cfg *config.Config) {
	rows := report.NewRowBuffer(cfg.Audit.Compact)
	if path, err := report.Write(rows, cfg.Output.Dir, timeNow()); err != nil {
		slog.Error("failed to write report", "error", err)
	} else {
		slog.Info("report written", "path", path)
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "refaudit", "refaudit.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "refaudit", "refaudit.log")
	}

	return "refaudit.log"
}
