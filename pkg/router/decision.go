package router

import "github.com/zen-systems/waypoint/pkg/state"

// Decision captures one routing decision for the audit trail.
type Decision struct {
	Router    string   `json:"router"`
	NextStage string   `json:"next_stage"`
	Locked    bool     `json:"locked"`
	Reasons   []string `json:"reasons,omitempty"`
}

// Decide runs the named router from the registry and records the outcome.
func (r *Registry) Decide(name string, s *state.State) (*Decision, error) {
	fn, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	next := fn(s)
	d := &Decision{
		Router:    name,
		NextStage: next,
	}
	if s != nil && s.Routing != nil && s.Routing.Locked {
		d.Locked = true
		d.Reasons = append(d.Reasons, "routing signal locked to "+s.Routing.Target)
	}
	if s != nil && s.Profile != nil {
		d.Reasons = append(d.Reasons, "intent="+s.Profile.Intent)
	}
	return d, nil
}
