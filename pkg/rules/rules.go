package rules

// Action identifies what a rule suggests doing with the query.
type Action string

const (
	ActionRead         Action = "read"
	ActionTroubleshoot Action = "troubleshoot"
	ActionCreate       Action = "create"
	ActionReview       Action = "review"
	ActionExplain      Action = "explain"
	ActionRoute        Action = "route"
)

// Category identifies which detector a rule belongs to.
type Category string

const (
	CategoryIntent    Category = "intent"
	CategoryTone      Category = "tone"
	CategorySubIntent Category = "sub_intent"
	CategoryPolicy    Category = "policy"
)

// Hit records one classification rule firing against input text.
// Hits are immutable once created and exist for audit logging.
type Hit struct {
	RuleID   string            `json:"rule_id"`
	Action   Action            `json:"action"`
	Category Category          `json:"category,omitempty"`
	Score    float64           `json:"score,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// NewHit creates a hit with a copy of the metadata map.
func NewHit(ruleID string, action Action, category Category, score float64, meta map[string]string) Hit {
	h := Hit{
		RuleID:   ruleID,
		Action:   action,
		Category: category,
		Score:    score,
	}
	if len(meta) > 0 {
		h.Meta = make(map[string]string, len(meta))
		for k, v := range meta {
			h.Meta[k] = v
		}
	}
	return h
}
