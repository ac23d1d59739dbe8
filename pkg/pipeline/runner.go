// Package pipeline walks one request through profile, routing and dispatch.
// The walk is linear: stages within a request run sequentially and the
// request state is never shared across requests.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zen-systems/waypoint/pkg/audit"
	"github.com/zen-systems/waypoint/pkg/config"
	"github.com/zen-systems/waypoint/pkg/dispatch"
	"github.com/zen-systems/waypoint/pkg/profile"
	"github.com/zen-systems/waypoint/pkg/router"
	"github.com/zen-systems/waypoint/pkg/state"
)

// Runner wires the profiler, router registry and dispatch orchestrator
// into a runnable request pipeline. Construct once at startup; safe for
// concurrent requests since all registries are read-only under load.
type Runner struct {
	profiler     *profile.Profiler
	routers      *router.Registry
	orchestrator *dispatch.Orchestrator
	cfg          *config.Config
	logger       *zap.Logger
}

// RunResult captures one request's walk through the pipeline.
type RunResult struct {
	RequestID string
	Profile   *profile.QueryProfile
	Decision  *router.Decision

	// Path lists the stage names visited, in order.
	Path []string

	// Dispatch is set when the walk reached the data-query stage.
	Dispatch *dispatch.StageResult
}

// NewRunner creates a runner over the given components.
func NewRunner(profiler *profile.Profiler, routers *router.Registry, orchestrator *dispatch.Orchestrator, cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{
		profiler:     profiler,
		routers:      routers,
		orchestrator: orchestrator,
		cfg:          cfg,
		logger:       logger,
	}
}

// RunOptions carries per-request overrides.
type RunOptions struct {
	// ModeHint names a dispatch mode directly; aliases are resolved
	// against the configuration.
	ModeHint string

	// PlannedAgents overrides the configured stage plan.
	PlannedAgents []string
}

// Run walks one query through the pipeline with the default options.
func (r *Runner) Run(ctx context.Context, query string) (*RunResult, error) {
	return r.RunWithOptions(ctx, query, RunOptions{})
}

// RunWithOptions walks one query through the pipeline. The router bound to
// the refiner stage comes from configuration; a missing router is a
// configuration error and fails the run before any stage executes.
func (r *Runner) RunWithOptions(ctx context.Context, query string, opts RunOptions) (*RunResult, error) {
	if _, err := r.routers.Get(r.cfg.Router); err != nil {
		return nil, fmt.Errorf("pipeline misconfigured: %w", err)
	}

	st := state.New(query)
	st.PlannedAgents = append([]string(nil), r.cfg.PlannedAgents...)
	if len(opts.PlannedAgents) > 0 {
		st.PlannedAgents = append([]string(nil), opts.PlannedAgents...)
	}
	if opts.ModeHint != "" {
		st.ModeHint = r.cfg.Aliases.Resolve(opts.ModeHint)
	}

	var writer *audit.Writer
	if r.cfg.AuditDir != "" {
		w, err := audit.NewWriter(r.cfg.AuditDir, st.RequestID)
		if err != nil {
			r.logger.Warn("audit disabled for request", zap.Error(err))
		} else {
			writer = w
			_ = writer.WriteRun(audit.RunRecord{
				ID:        st.RequestID,
				Timestamp: time.Now().UTC(),
				QueryHash: audit.HashQuery(query),
			})
		}
	}

	result := &RunResult{RequestID: st.RequestID, Path: []string{"refiner"}}

	profileStart := time.Now()
	st.Profile = r.profiler.Analyze(query)
	st.SetMeta("profile", st.Profile)
	result.Profile = st.Profile
	r.logger.Debug("query profiled",
		zap.String("request_id", st.RequestID),
		zap.String("intent", st.Profile.Intent),
		zap.String("tone", st.Profile.Tone),
		zap.String("sub_intent", st.Profile.SubIntent),
		zap.Int("rule_hits", len(st.Profile.MatchedRules)))
	if writer != nil {
		_ = writer.WriteProfile(audit.ProfileRecord{
			Query:          query,
			Profile:        st.Profile,
			DurationMillis: time.Since(profileStart).Milliseconds(),
		})
	}

	routeStart := time.Now()
	decision, err := r.routers.Decide(r.cfg.Router, st)
	if err != nil {
		return nil, err
	}
	result.Decision = decision
	next := r.resolveStage(decision.NextStage)
	result.Path = append(result.Path, next)
	r.logger.Info("routed",
		zap.String("request_id", st.RequestID),
		zap.String("router", decision.Router),
		zap.String("next_stage", next))
	if writer != nil {
		_ = writer.WriteRoute(audit.RouteRecord{
			Decision:       decision,
			DurationMillis: time.Since(routeStart).Milliseconds(),
		})
	}

	if next == router.StageDataQuery {
		dispatchStart := time.Now()
		result.Dispatch = r.orchestrator.Run(ctx, st)
		st.SetMeta("data_query", result.Dispatch)
		if writer != nil {
			_ = writer.WriteDispatch(audit.DispatchRecord{
				Status:         result.Dispatch.Status,
				Mode:           result.Dispatch.Mode,
				Debug:          result.Dispatch.Debug,
				DurationMillis: time.Since(dispatchStart).Milliseconds(),
			})
		}
		// A planner-scheduled final stage still runs after data query.
		if st.PlansFinal() {
			result.Path = append(result.Path, router.StageFinal)
		}
	}

	return result, nil
}

// resolveStage maps the virtual reflect destination onto the configured
// concrete stage. All other stage names pass through unchanged.
func (r *Runner) resolveStage(stage string) string {
	if stage == router.StageReflect {
		return r.cfg.ReflectTarget
	}
	return stage
}
