package dispatch

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zen-systems/waypoint/pkg/state"
)

// Registry maps mode strings to handlers. It is populated from a static
// registration list during startup and is read-only afterwards, so lookups
// need no locking. Registering a mode twice replaces the previous handler;
// this is deliberate so tests can swap in doubles.
type Registry struct {
	handlers map[string]Handler
	// order preserves first-registration order per mode for the
	// inference tie-break.
	order  []string
	logger *zap.Logger
}

// NewRegistry creates an empty mode registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register stores a handler under its mode. Last write wins; an overwrite
// keeps the mode's original position in the inference order.
func (r *Registry) Register(h Handler) {
	if h == nil {
		return
	}
	mode := h.Mode()
	if mode == "" {
		r.logger.Warn("ignoring handler with empty mode",
			zap.String("source", h.SourceLabel()))
		return
	}
	if _, exists := r.handlers[mode]; exists {
		r.logger.Debug("replacing handler", zap.String("mode", mode))
	} else {
		r.order = append(r.order, mode)
	}
	r.handlers[mode] = h
}

// Get returns the handler for mode.
func (r *Registry) Get(mode string) (Handler, bool) {
	h, ok := r.handlers[mode]
	return h, ok
}

// Modes returns registered modes in registration order.
func (r *Registry) Modes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// InferMode picks the mode whose keywords best match the request text.
// The raw query and any upstream mode hint are scanned against every
// registered handler's keyword list: the longest matching keyword wins,
// ties go to the earlier-registered mode, and when nothing matches the
// fallback mode is returned unconditionally.
// TODO: confirm the longest-match tie-break policy with product before
// adding anything smarter here.
func (r *Registry) InferMode(st *state.State, fallback string) string {
	text := ""
	if st != nil {
		text = strings.ToLower(st.Query)
		if st.ModeHint != "" {
			hint := strings.ToLower(st.ModeHint)
			if _, ok := r.handlers[hint]; ok {
				return hint
			}
			text += " " + hint
		}
	}
	if text == "" {
		return fallback
	}

	bestMode := ""
	bestLen := 0
	for _, mode := range r.order {
		h := r.handlers[mode]
		for _, kw := range h.Keywords() {
			keyword := strings.ToLower(strings.TrimSpace(kw))
			if keyword == "" || len(keyword) <= bestLen {
				continue
			}
			if containsKeyword(text, keyword) {
				bestMode = mode
				bestLen = len(keyword)
			}
		}
	}

	if bestMode == "" {
		return fallback
	}
	return bestMode
}

// containsKeyword checks for the keyword as a word or phrase boundary
// match inside text. Both inputs must already be lowercase.
func containsKeyword(text, keyword string) bool {
	idx := strings.Index(text, keyword)
	for idx != -1 {
		start := idx
		end := idx + len(keyword)
		startOK := start == 0 || !isWordChar(text[start-1])
		endOK := end == len(text) || !isWordChar(text[end])
		if startOK && endOK {
			return true
		}
		next := strings.Index(text[start+1:], keyword)
		if next == -1 {
			return false
		}
		idx = start + 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
