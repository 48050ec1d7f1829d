// # cmd/refaudit/app.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"refaudit/internal/audit"
	"refaudit/internal/config"
	"refaudit/internal/history"
	"refaudit/internal/model"
	"refaudit/internal/parser"
	"refaudit/internal/report"
	"refaudit/internal/shared/util"
	"refaudit/internal/watcher"
)

var timeNow = time.Now

var (
	summaryRule = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Render
	successTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Render
	warnTag     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true).Render
)

type App struct {
	cfg       *config.Config
	workspace string
	uiMode    bool

	store   *history.Store
	limiter *util.Limiter

	teaProgram *tea.Program

	mu      sync.Mutex
	lastRun *audit.Result
}

func NewApp(cfg *config.Config, workspace string, uiMode bool) (*App, error) {
	a := &App{
		cfg:       cfg,
		workspace: workspace,
		uiMode:    uiMode,
		limiter:   util.NewLimiter(cfg.Watch.Rate, cfg.Watch.Burst),
	}

	if cfg.History.DB != "" {
		store, err := history.Open(cfg.History.DB)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

// RunOnce executes one full audit: open the workspace model, run the
// pipeline, write the report. A write failure is logged and tolerated.
func (a *App) RunOnce(ctx context.Context) (*audit.Result, error) {
	gw, err := model.Open(ctx, a.cfg, a.workspace)
	if err != nil {
		return nil, err
	}

	var mirror io.Writer
	if !a.uiMode {
		mirror = os.Stdout
	}
	logBuf := audit.NewLogBuffer(mirror)

	result, err := audit.Run(ctx, gw, a.cfg, logBuf)
	if err != nil {
		return nil, err
	}

	rows := report.FromResult(result, a.cfg.Audit.Compact)
	path, err := report.Write(rows, a.cfg.Output.Dir, result.StartedAt)
	if err != nil {
		slog.Error("failed to write report", "error", err)
		path = ""
	}

	a.saveHistory(result, path)

	a.mu.Lock()
	a.lastRun = result
	a.mu.Unlock()

	if a.uiMode {
		a.sendUpdate(result, gw.FileCount())
	} else {
		a.printSummary(result, gw.FileCount(), path)
	}

	return result, nil
}

func (a *App) saveHistory(result *audit.Result, reportPath string) {
	if a.store == nil {
		return
	}
	err := a.store.SaveRun(history.RunSnapshot{
		RunID:            result.RunID,
		Timestamp:        result.StartedAt,
		Workspace:        a.workspace,
		Dialect:          result.Dialect,
		DeclarationCount: result.DeclarationCount(),
		ReferenceCount:   result.ReferenceCount(),
		ZeroUsageCount:   len(result.ZeroUsage()),
		DurationMS:       result.Duration.Milliseconds(),
		ReportPath:       reportPath,
	})
	if err != nil {
		slog.Warn("failed to save run history", "error", err)
	}
}

func (a *App) printSummary(result *audit.Result, fileCount int, reportPath string) {
	fmt.Println(summaryRule(strings.Repeat("-", 40)))
	fmt.Printf("Audit: %d files, %d declarations, %d usages in %v (%s)\n",
		fileCount, result.DeclarationCount(), result.ReferenceCount(),
		result.Duration.Round(time.Millisecond), result.Dialect)

	if zero := result.ZeroUsage(); len(zero) > 0 {
		fmt.Printf("%s %d declarations with no usages:\n", warnTag("!"), len(zero))
		for _, name := range zero {
			fmt.Printf("   %s\n", name)
		}
	} else {
		fmt.Println(successTag("✓") + " Every declaration is used.")
	}

	if reportPath != "" {
		fmt.Printf("Report: %s\n", reportPath)
	}
	fmt.Println(summaryRule(strings.Repeat("-", 40)))
}

// HandleChanges is the watcher callback: one rate-limited full re-audit per
// change batch.
func (a *App) HandleChanges(paths []string) {
	if !a.limiter.Allow(1) {
		slog.Debug("re-audit suppressed by rate limit", "changes", len(paths))
		return
	}
	slog.Info("sources changed, re-running audit", "changes", len(paths))

	if _, err := a.RunOnce(context.Background()); err != nil {
		slog.Error("re-audit failed", "error", err)
	}
}

func (a *App) StartWatcher() error {
	spec, ok := parser.DialectRegistry()[a.cfg.Dialect]
	if !ok {
		return fmt.Errorf("unknown dialect %q", a.cfg.Dialect)
	}

	w, err := watcher.NewWatcher(
		spec,
		a.cfg.Watch.Debounce,
		a.cfg.Exclude.Dirs,
		a.cfg.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs for the process lifetime, no close.
	return w.Watch(a.workspace)
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.mu.Lock()
		result := a.lastRun
		a.mu.Unlock()
		if result != nil {
			a.sendUpdate(result, 0)
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) sendUpdate(result *audit.Result, fileCount int) {
	if a.teaProgram == nil {
		return
	}
	a.teaProgram.Send(updateMsg{
		entries:   result.Entries,
		zeroUsage: len(result.ZeroUsage()),
		fileCount: fileCount,
		dialect:   result.Dialect,
	})
}

// Health is the /health payload of the observability server.
func (a *App) Health() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	payload := map[string]any{
		"status":    "up",
		"workspace": a.workspace,
		"dialect":   a.cfg.Dialect,
	}
	if a.lastRun != nil {
		payload["last_run"] = a.lastRun.StartedAt.UTC().Format(time.RFC3339)
		payload["declarations"] = a.lastRun.DeclarationCount()
		payload["references"] = a.lastRun.ReferenceCount()
		payload["zero_usage"] = len(a.lastRun.ZeroUsage())
	}
	return payload
}
