package flows

import (
	"context"
	"log/slog"
)

// RunInfo identifies one pattern invocation in observer callbacks.
type RunInfo struct {
	// ID is a short random identifier, unique per invocation.
	ID string
	// Flow is the pattern name: chain, parallel, route, refine, orchestrate.
	Flow string
}

// Observer receives progress callbacks from pattern executions. Callbacks
// are informational only and not part of any pattern's functional contract.
//
// Implementations must be safe for concurrent use: the fan-out patterns
// invoke OnCall from multiple goroutines. They should also be fast;
// heavy work belongs on the implementation's own goroutines.
type Observer interface {
	// OnStart is called once when a pattern invocation begins.
	OnStart(ctx context.Context, run RunInfo)

	// OnCall is called after each successful completion call, with a label
	// for the step that issued it and the text the model returned.
	OnCall(ctx context.Context, run RunInfo, step, output string)

	// OnFinish is called once when the invocation returns, with its error.
	OnFinish(ctx context.Context, run RunInfo, err error)
}

// NoopObserver is an Observer that does nothing. It is the default when no
// observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnStart(ctx context.Context, run RunInfo)                 {}
func (NoopObserver) OnCall(ctx context.Context, run RunInfo, step, out string) {}
func (NoopObserver) OnFinish(ctx context.Context, run RunInfo, err error)     {}

// LogObserver writes structured logs using log/slog. Model output is
// truncated to keep log lines readable.
type LogObserver struct {
	Logger *slog.Logger
}

// NewLogObserver creates an Observer logging to logger, or slog.Default()
// when logger is nil.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) OnStart(ctx context.Context, run RunInfo) {
	o.Logger.InfoContext(ctx, "flow_start",
		slog.String("flow", run.Flow),
		slog.String("run_id", run.ID),
	)
}

func (o *LogObserver) OnCall(ctx context.Context, run RunInfo, step, output string) {
	o.Logger.InfoContext(ctx, "flow_call",
		slog.String("flow", run.Flow),
		slog.String("run_id", run.ID),
		slog.String("step", step),
		slog.String("output", truncate(output, 160)),
	)
}

func (o *LogObserver) OnFinish(ctx context.Context, run RunInfo, err error) {
	if err != nil {
		o.Logger.ErrorContext(ctx, "flow_failed",
			slog.String("flow", run.Flow),
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	o.Logger.InfoContext(ctx, "flow_completed",
		slog.String("flow", run.Flow),
		slog.String("run_id", run.ID),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
