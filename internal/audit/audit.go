package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refaudit/internal/config"
	"refaudit/internal/shared/observability"
)

// Entry pairs one audited declaration with its resolved uses, in report
// order: declarations as discovered, references as the gateway returned them.
type Entry struct {
	Decl *DeclarationRecord
	Refs []ReferenceRecord
}

// Result is the outcome of one audit run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Dialect   string

	Entries []Entry
}

func (r *Result) DeclarationCount() int {
	return len(r.Entries)
}

func (r *Result) ReferenceCount() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Refs)
	}
	return n
}

// ZeroUsage lists the qualified names of declarations with no uses.
func (r *Result) ZeroUsage() []string {
	var names []string
	for _, e := range r.Entries {
		if len(e.Refs) == 0 {
			names = append(names, e.Decl.QualifiedName())
		}
	}
	return names
}

// Run executes the full pipeline: collect declarations, then resolve and log
// the uses of each one strictly in sequence.
func Run(ctx context.Context, gw Gateway, cfg *config.Config, log *LogBuffer) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "audit.Run")
	defer span.End()

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Dialect:   cfg.Dialect,
	}

	for _, rec := range Collect(ctx, gw, cfg, log) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refs := ResolveReferences(ctx, gw, rec, log)
		result.Entries = append(result.Entries, Entry{Decl: rec, Refs: refs})
	}

	result.Duration = time.Since(result.StartedAt)
	observability.AuditDuration.Observe(result.Duration.Seconds())

	return result, nil
}
