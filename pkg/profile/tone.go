package profile

import (
	"regexp"
	"strings"

	"github.com/zen-systems/waypoint/pkg/rules"
)

type toneRule struct {
	id      string
	pattern *regexp.Regexp
	label   string
	score   float64
}

var toneRules = []toneRule{
	{
		id:      "tone:urgent:urgency-terms",
		pattern: regexp.MustCompile(`\b(urgent(ly)?|asap|immediately|right now|critical|emergency|production (is )?down)\b`),
		label:   "urgent",
		score:   0.85,
	},
	{
		id:      "tone:frustrated:frustration-terms",
		pattern: regexp.MustCompile(`\b(frustrat(ed|ing)|annoy(ed|ing)|angry|ridiculous|unacceptable|fed up|wtf|still (broken|not working))\b`),
		label:   "frustrated",
		score:   0.8,
	},
	{
		id:      "tone:frustrated:repeated-punctuation",
		pattern: regexp.MustCompile(`(!{2,}|\?{3,})`),
		label:   "frustrated",
		score:   0.6,
	},
	{
		id:      "tone:appreciative:gratitude-terms",
		pattern: regexp.MustCompile(`\b(thanks|thank you|appreciate|much obliged|great work)\b`),
		label:   "appreciative",
		score:   0.7,
	},
}

func detectTone(text string) detection {
	var hits []rules.Hit
	var winnerLabel string
	var confidence float64

	for i := range toneRules {
		r := &toneRules[i]
		if !r.pattern.MatchString(text) {
			continue
		}
		hits = append(hits, rules.NewHit(r.id, rules.ActionRoute, rules.CategoryTone, r.score, map[string]string{
			"label": r.label,
		}))
		if winnerLabel == "" {
			winnerLabel = r.label
			confidence = r.score
		} else if r.label == winnerLabel && confidence < 0.95 {
			confidence += 0.05
		}
	}

	signals := map[string]any{}
	if strings.Contains(text, "!") {
		signals["exclamations"] = strings.Count(text, "!")
	}

	if winnerLabel == "" {
		d := defaultDetection(DefaultTone)
		d.signals = signals
		return d
	}

	return detection{
		label:      winnerLabel,
		confidence: confidence,
		hits:       hits,
		signals:    signals,
	}
}
