package profile

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zen-systems/waypoint/pkg/rules"
)

// Defaults substituted when a detector cannot produce a result.
const (
	DefaultIntent     = "general"
	DefaultTone       = "neutral"
	DefaultSubIntent  = "general"
	DefaultConfidence = 0.5
)

// QueryProfile is the output of the profiling pipeline. It is constructed
// once per incoming query and read-only afterwards.
type QueryProfile struct {
	Intent              string                    `json:"intent"`
	IntentConfidence    float64                   `json:"intent_confidence"`
	Tone                string                    `json:"tone"`
	ToneConfidence      float64                   `json:"tone_confidence"`
	SubIntent           string                    `json:"sub_intent"`
	SubIntentConfidence float64                   `json:"sub_intent_confidence"`
	Signals             map[string]map[string]any `json:"signals"`
	MatchedRules        []rules.Hit               `json:"matched_rules,omitempty"`
}

// Signal returns a named signal recorded by one of the detectors.
func (p *QueryProfile) Signal(detector, key string) (any, bool) {
	if p == nil || p.Signals == nil {
		return nil, false
	}
	m, ok := p.Signals[detector]
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// detection is the raw result of a single detector pass.
type detection struct {
	label      string
	confidence float64
	hits       []rules.Hit
	signals    map[string]any
}

// Profiler classifies raw query text into intent, tone and sub-intent.
// Detectors are rule-based so every decision traces to a named rule.
type Profiler struct {
	logger *zap.Logger
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithLogger sets the logger used to report recovered detector failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// NewProfiler creates a profiler with the built-in rule tables.
func NewProfiler(opts ...Option) *Profiler {
	p := &Profiler{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze profiles raw query text. It never fails: a detector panic is
// recovered locally and replaced with the documented default label at
// confidence 0.5, so downstream routing always sees a well-formed profile.
func (p *Profiler) Analyze(raw string) *QueryProfile {
	text := strings.ToLower(strings.TrimSpace(raw))

	intent := p.runDetector("intent", DefaultIntent, func() detection {
		return detectIntent(text)
	})
	tone := p.runDetector("tone", DefaultTone, func() detection {
		return detectTone(text)
	})
	sub := p.runDetector("sub_intent", DefaultSubIntent, func() detection {
		return detectSubIntent(text, intent.label)
	})

	out := &QueryProfile{
		Intent:              intent.label,
		IntentConfidence:    clamp01(intent.confidence),
		Tone:                tone.label,
		ToneConfidence:      clamp01(tone.confidence),
		SubIntent:           sub.label,
		SubIntentConfidence: clamp01(sub.confidence),
		Signals: map[string]map[string]any{
			"intent":     intent.signals,
			"tone":       tone.signals,
			"sub_intent": sub.signals,
		},
	}
	out.MatchedRules = append(out.MatchedRules, intent.hits...)
	out.MatchedRules = append(out.MatchedRules, tone.hits...)
	out.MatchedRules = append(out.MatchedRules, sub.hits...)
	return out
}

// runDetector guards one detector pass. Labels are never empty and a
// panicking detector degrades to the default label instead of failing
// the whole request.
func (p *Profiler) runDetector(name, fallback string, fn func() detection) (out detection) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("detector failed, using default",
				zap.String("detector", name),
				zap.Any("cause", r))
			out = defaultDetection(fallback)
		}
	}()
	out = fn()
	if out.label == "" {
		out.label = fallback
	}
	if out.signals == nil {
		out.signals = map[string]any{}
	}
	return out
}

func defaultDetection(label string) detection {
	return detection{
		label:      label,
		confidence: DefaultConfidence,
		signals:    map[string]any{},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
