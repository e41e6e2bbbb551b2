// Package changes decides which configurations need rebuilding
package changes

import (
	"sort"

	"github.com/c3i/c3i/pkg/types"
)

// Delta returns the branches whose commit id differs from the previous run or
// that were not present before. Branches that disappeared are not included.
func Delta(previous, current types.RefMap) map[string]bool {
	delta := make(map[string]bool)
	for branch, ref := range current {
		if old, ok := previous[branch]; !ok || old != ref {
			delta[branch] = true
		}
	}
	return delta
}

// DeltaBranches returns the delta as a sorted list
func DeltaBranches(delta map[string]bool) []string {
	out := make([]string, 0, len(delta))
	for branch := range delta {
		out = append(out, branch)
	}
	sort.Strings(out)
	return out
}

// Action is the planner's verdict for one configuration
type Action string

const (
	ActionBuild    Action = "build"
	ActionUpToDate Action = "up-to-date"
	ActionMissing  Action = "missing"
	ActionDisabled Action = "disabled"
)

// Reason explains why a configuration is dirty
type Reason string

const (
	ReasonForced      Reason = "forced"
	ReasonNoRecord    Reason = "no previous build"
	ReasonMainline    Reason = "mainline changed"
	ReasonBranch      Reason = "branch changed"
	ReasonNotRequired Reason = ""
)

// Decision is the plan entry for one configuration
type Decision struct {
	Configuration types.Configuration
	Action        Action
	Reason        Reason
	// Missing lists dependent branches absent from the repository
	Missing []string
}

// Options control planning
type Options struct {
	Mainline string
	Force    bool
	NoBuild  bool
}

// Planner computes build decisions from refs and build history
type Planner struct {
	opts Options
}

// NewPlanner creates a planner
func NewPlanner(opts Options) *Planner {
	return &Planner{opts: opts}
}

// Dirty reports whether a configuration needs rebuilding and why
func (p *Planner) Dirty(cfg types.Configuration, delta map[string]bool, hasRecord bool) (bool, Reason) {
	switch {
	case p.opts.Force:
		return true, ReasonForced
	case delta[p.opts.Mainline]:
		return true, ReasonMainline
	case !hasRecord:
		return true, ReasonNoRecord
	}
	for _, branch := range cfg.Branches {
		if delta[branch] {
			return true, ReasonBranch
		}
	}
	return false, ReasonNotRequired
}

// Plan decides, for each configuration in order, whether it is built
func (p *Planner) Plan(
	configurations []types.Configuration,
	current types.RefMap,
	delta map[string]bool,
	records map[string]types.BuildRecord,
) []Decision {
	decisions := make([]Decision, 0, len(configurations))
	for _, cfg := range configurations {
		decision := Decision{Configuration: cfg}

		if p.opts.NoBuild {
			decision.Action = ActionDisabled
			decisions = append(decisions, decision)
			continue
		}

		_, hasRecord := records[cfg.Name]
		dirty, reason := p.Dirty(cfg, delta, hasRecord)
		if !dirty {
			decision.Action = ActionUpToDate
			decisions = append(decisions, decision)
			continue
		}
		decision.Reason = reason

		for _, branch := range cfg.Branches {
			if _, ok := current[branch]; !ok {
				decision.Missing = append(decision.Missing, branch)
			}
		}
		if len(decision.Missing) > 0 {
			decision.Action = ActionMissing
		} else {
			decision.Action = ActionBuild
		}
		decisions = append(decisions, decision)
	}
	return decisions
}
