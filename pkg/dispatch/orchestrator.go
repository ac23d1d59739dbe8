package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zen-systems/waypoint/pkg/state"
)

// Stage result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultFallbackMode answers data queries when inference finds nothing.
const DefaultFallbackMode = "students"

// DefaultFetchTimeout bounds one upstream fetch call.
const DefaultFetchTimeout = 10 * time.Second

// Paging window for the fetch call. Fixed for now; user paging input is
// not threaded through yet.
const (
	fetchSkip  = 0
	fetchLimit = 100
)

// Progress markers for the per-request dispatch state machine, recorded in
// the debug metadata.
const (
	phaseUnstarted    = "unstarted"
	phaseModeResolved = "mode_resolved"
	phaseFetched      = "fetched"
	phaseRendered     = "rendered"
	phaseDone         = "done"
	phaseError        = "error"
)

// StageResult is the packaged outcome of the data-query stage. Failures
// are carried as error-status results, never as panics, so the pipeline
// can continue to its failure-handling stage.
type StageResult struct {
	Status string         `json:"status"`
	Mode   string         `json:"mode"`
	Answer string         `json:"answer"`
	Debug  map[string]any `json:"debug,omitempty"`
}

// Orchestrator runs the data-query stage: infer a mode, fetch rows through
// the handler, render both output formats and package the result.
type Orchestrator struct {
	registry     *Registry
	fallbackMode string
	timeout      time.Duration
	logger       *zap.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithFallbackMode overrides the default fallback mode.
func WithFallbackMode(mode string) OrchestratorOption {
	return func(o *Orchestrator) {
		if mode != "" {
			o.fallbackMode = mode
		}
	}
}

// WithFetchTimeout overrides the upstream fetch timeout.
func WithFetchTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an orchestrator over the given registry.
func NewOrchestrator(registry *Registry, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry:     registry,
		fallbackMode: DefaultFallbackMode,
		timeout:      DefaultFetchTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the data-query stage for one request. It never panics and
// never returns a raised error: every failure becomes an error-status
// result. Unexpected failures surface a generic message to the user; the
// detail goes only to the log and debug metadata.
func (o *Orchestrator) Run(ctx context.Context, st *state.State) (result *StageResult) {
	debug := map[string]any{"dispatch_state": phaseUnstarted}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("dispatch panicked",
				zap.String("request_id", requestID(st)),
				zap.Any("cause", r))
			debug["dispatch_state"] = phaseError
			debug["internal_error"] = fmt.Sprintf("%v", r)
			result = &StageResult{
				Status: StatusError,
				Answer: "An unexpected error occurred while answering your request.",
				Debug:  debug,
			}
		}
	}()

	mode := o.registry.InferMode(st, o.fallbackMode)
	debug["dispatch_state"] = phaseModeResolved
	debug["mode"] = mode

	handler, ok := o.registry.Get(mode)
	if !ok {
		o.logger.Error("no handler for mode",
			zap.String("mode", mode),
			zap.String("fallback", o.fallbackMode))
		debug["dispatch_state"] = phaseError
		return &StageResult{
			Status: StatusError,
			Mode:   mode,
			Answer: "No data source is available to answer this request.",
			Debug:  debug,
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	fetched, err := handler.Fetch(fetchCtx, st, fetchSkip, fetchLimit)
	if err != nil {
		return o.errorResult(st, mode, err, debug)
	}
	debug["dispatch_state"] = phaseFetched
	debug["row_count"] = len(fetched.Rows)
	debug["fetch_meta"] = fetched.Meta

	table := handler.RenderTable(fetched.Rows)
	flat := handler.RenderFlat(fetched.Rows)
	debug["dispatch_state"] = phaseRendered
	debug["table"] = table
	debug["flat"] = flat

	answer := fmt.Sprintf("Found %d %s records.\n\n%s\nSource: %s",
		len(fetched.Rows), mode, table, handler.SourceLabel())

	debug["dispatch_state"] = phaseDone
	o.logger.Info("dispatch complete",
		zap.String("request_id", requestID(st)),
		zap.String("mode", mode),
		zap.Int("rows", len(fetched.Rows)))

	return &StageResult{
		Status: StatusSuccess,
		Mode:   mode,
		Answer: answer,
		Debug:  debug,
	}
}

// errorResult folds a fetch failure into an error-status stage result. A
// normalized dispatch error is shown to the user verbatim; anything else
// is reported generically with detail kept in the debug metadata.
func (o *Orchestrator) errorResult(st *state.State, mode string, err error, debug map[string]any) *StageResult {
	debug["dispatch_state"] = phaseError

	if de, ok := AsDispatchError(err); ok {
		o.logger.Warn("fetch failed",
			zap.String("request_id", requestID(st)),
			zap.String("mode", mode),
			zap.Bool("timeout", IsTimeout(err)),
			zap.Error(err))
		if len(de.Endpoints) > 0 {
			debug["endpoints"] = de.Endpoints
		}
		return &StageResult{
			Status: StatusError,
			Mode:   mode,
			Answer: fmt.Sprintf("The data request could not be completed: %s", de.Error()),
			Debug:  debug,
		}
	}

	o.logger.Error("unexpected fetch failure",
		zap.String("request_id", requestID(st)),
		zap.String("mode", mode),
		zap.Error(err))
	debug["internal_error"] = err.Error()
	return &StageResult{
		Status: StatusError,
		Mode:   mode,
		Answer: "An unexpected error occurred while answering your request.",
		Debug:  debug,
	}
}

func requestID(st *state.State) string {
	if st == nil {
		return ""
	}
	return st.RequestID
}
