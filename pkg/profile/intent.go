package profile

import (
	"regexp"
	"strings"

	"github.com/zen-systems/waypoint/pkg/rules"
)

// intentRule pairs one compiled pattern with the label it votes for.
// Rules are evaluated top to bottom; the first match wins the label but
// every match is still recorded as a hit for the audit trail.
type intentRule struct {
	id      string
	pattern *regexp.Regexp
	label   string
	action  rules.Action
	score   float64
}

var intentRules = []intentRule{
	{
		id:      "intent:troubleshoot:failure-terms",
		pattern: regexp.MustCompile(`\b(errors?|exceptions?|stack ?trace|traceback|panic|crash(ed|es|ing)?|broken|not working|fail(s|ed|ing)?)\b`),
		label:   "troubleshoot",
		action:  rules.ActionTroubleshoot,
		score:   0.9,
	},
	{
		id:      "intent:troubleshoot:why-broken",
		pattern: regexp.MustCompile(`\bwhy (is|does|did|won'?t).{0,40}\b(break|fail|stop|hang)`),
		label:   "troubleshoot",
		action:  rules.ActionTroubleshoot,
		score:   0.8,
	},
	{
		id:      "intent:action:query-verbs",
		pattern: regexp.MustCompile(`\b(show|list|count|how many|fetch|get|find|look ?up|display|give me)\b`),
		label:   "action",
		action:  rules.ActionRead,
		score:   0.85,
	},
	{
		id:      "intent:action:mutation-verbs",
		pattern: regexp.MustCompile(`\b(add|create|register|enroll|insert|schedule|assign)\b`),
		label:   "action",
		action:  rules.ActionCreate,
		score:   0.75,
	},
	{
		id:      "intent:review:review-verbs",
		pattern: regexp.MustCompile(`\b(review|double.?check|verify|audit|validate)\b`),
		label:   "review",
		action:  rules.ActionReview,
		score:   0.7,
	},
	{
		id:      "intent:informational:question-forms",
		pattern: regexp.MustCompile(`\b(what (is|are)|how (does|do)|why (is|are|do|does)|explain|describe|tell me about|difference between)\b`),
		label:   "informational",
		action:  rules.ActionExplain,
		score:   0.8,
	},
}

var (
	tablePattern = regexp.MustCompile(`\b(?:from|in|of)\s+(?:the\s+)?([a-z][a-z0-9_]+)\s+(?:table|collection|dataset)\b`)
	topicPattern = regexp.MustCompile(`\babout\s+([a-z0-9][a-z0-9_ -]{1,40}?)(?:[.?!,]|$)`)
)

func detectIntent(text string) detection {
	var hits []rules.Hit
	var winner *intentRule
	extra := 0

	for i := range intentRules {
		r := &intentRules[i]
		if !r.pattern.MatchString(text) {
			continue
		}
		hits = append(hits, rules.NewHit(r.id, r.action, rules.CategoryIntent, r.score, map[string]string{
			"label": r.label,
		}))
		if winner == nil {
			winner = r
		} else if r.label == winner.label {
			extra++
		}
	}

	signals := map[string]any{}
	if m := tablePattern.FindStringSubmatch(text); m != nil {
		signals["table"] = m[1]
	}
	if m := topicPattern.FindStringSubmatch(text); m != nil {
		signals["topic"] = strings.TrimSpace(m[1])
	}

	if winner == nil {
		d := defaultDetection(DefaultIntent)
		d.signals = signals
		d.hits = hits
		return d
	}

	if winner.label == "action" {
		if winner.action == rules.ActionRead {
			signals["action_type"] = "query"
			signals["is_query"] = true
		} else {
			signals["action_type"] = "mutation"
		}
	}

	// Corroborating matches for the same label raise confidence a little.
	confidence := winner.score + 0.05*float64(extra)
	if confidence > 0.98 {
		confidence = 0.98
	}

	return detection{
		label:      winner.label,
		confidence: confidence,
		hits:       hits,
		signals:    signals,
	}
}
