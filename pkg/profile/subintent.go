package profile

import (
	"regexp"

	"github.com/zen-systems/waypoint/pkg/rules"
)

// subIntentRule specializes on the already-computed intent label, so the
// same surface text can map to different sub-intents per intent.
type subIntentRule struct {
	id      string
	intent  string
	pattern *regexp.Regexp
	label   string
	action  rules.Action
	score   float64
}

var subIntentRules = []subIntentRule{
	{
		id:      "sub_intent:bugfix_stacktrace:trace-markers",
		intent:  "troubleshoot",
		pattern: regexp.MustCompile(`(stack ?trace|traceback|panic:|goroutine \d+|caused by:|at [a-z_$][\w$.]*\()`),
		label:   "bugfix_stacktrace",
		action:  rules.ActionTroubleshoot,
		score:   0.9,
	},
	{
		id:      "sub_intent:perf_degradation:latency-terms",
		intent:  "troubleshoot",
		pattern: regexp.MustCompile(`\b(slow(er|ly)?|latenc(y|ies)|timeout(s)?|takes (too long|forever)|performance)\b`),
		label:   "perf_degradation",
		action:  rules.ActionTroubleshoot,
		score:   0.8,
	},
	{
		id:      "sub_intent:data_lookup:read-terms",
		intent:  "action",
		pattern: regexp.MustCompile(`\b(show|list|count|how many|fetch|get|find|look ?up|display)\b`),
		label:   "data_lookup",
		action:  rules.ActionRead,
		score:   0.8,
	},
	{
		id:      "sub_intent:data_change:write-terms",
		intent:  "action",
		pattern: regexp.MustCompile(`\b(add|create|register|enroll|insert|update|delete|remove)\b`),
		label:   "data_change",
		action:  rules.ActionCreate,
		score:   0.7,
	},
	{
		id:      "sub_intent:explain_concept:question-forms",
		intent:  "informational",
		pattern: regexp.MustCompile(`\b(what (is|are)|how (does|do)|explain|describe|difference between)\b`),
		label:   "explain_concept",
		action:  rules.ActionExplain,
		score:   0.75,
	},
}

// fallback sub-intents when no rule for the given intent matches.
var subIntentFallbacks = map[string]string{
	"troubleshoot": "diagnose",
	"action":       "data_lookup",
}

func detectSubIntent(text, intent string) detection {
	var hits []rules.Hit
	var winnerLabel string
	var confidence float64

	for i := range subIntentRules {
		r := &subIntentRules[i]
		if r.intent != intent || !r.pattern.MatchString(text) {
			continue
		}
		hits = append(hits, rules.NewHit(r.id, r.action, rules.CategorySubIntent, r.score, map[string]string{
			"label":  r.label,
			"intent": intent,
		}))
		if winnerLabel == "" {
			winnerLabel = r.label
			confidence = r.score
		}
	}

	signals := map[string]any{"intent": intent}

	if winnerLabel == "" {
		label := subIntentFallbacks[intent]
		if label == "" {
			label = DefaultSubIntent
		}
		return detection{
			label:      label,
			confidence: DefaultConfidence,
			signals:    signals,
		}
	}

	return detection{
		label:      winnerLabel,
		confidence: confidence,
		hits:       hits,
		signals:    signals,
	}
}
