package changes_test

import (
	"testing"

	"github.com/c3i/c3i/pkg/changes"
	"github.com/c3i/c3i/pkg/types"
)

const mainline = "origin/master"

var (
	defaultCfg = types.Configuration{Name: "default", Branches: []string{}}
	featureCfg = types.Configuration{Name: "feature", Branches: []string{"pr/42"}}
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name     string
		previous types.RefMap
		current  types.RefMap
		want     []string
	}{
		{
			name:     "equal ids are never dirty",
			previous: types.RefMap{mainline: "a", "pr/42": "b"},
			current:  types.RefMap{mainline: "a", "pr/42": "b"},
			want:     []string{},
		},
		{
			name:     "changed id",
			previous: types.RefMap{mainline: "a", "pr/42": "b"},
			current:  types.RefMap{mainline: "c", "pr/42": "b"},
			want:     []string{mainline},
		},
		{
			name:     "new branch",
			previous: types.RefMap{mainline: "a"},
			current:  types.RefMap{mainline: "a", "pr/42": "b"},
			want:     []string{"pr/42"},
		},
		{
			name:     "removed branch is not dirty",
			previous: types.RefMap{mainline: "a", "pr/42": "b"},
			current:  types.RefMap{mainline: "a"},
			want:     []string{},
		},
		{
			name:     "empty previous",
			previous: nil,
			current:  types.RefMap{mainline: "a", "pr/42": "b"},
			want:     []string{mainline, "pr/42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := changes.DeltaBranches(changes.Delta(tt.previous, tt.current))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestDirty_EmptyBranchList(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		delta     map[string]bool
		hasRecord bool
		want      bool
	}{
		{"clean", false, map[string]bool{}, true, false},
		{"unrelated branch changed", false, map[string]bool{"pr/42": true}, true, false},
		{"mainline changed", false, map[string]bool{mainline: true}, true, true},
		{"forced", true, map[string]bool{}, true, true},
		{"no record", false, map[string]bool{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := changes.NewPlanner(changes.Options{Mainline: mainline, Force: tt.force})
			got, _ := planner.Dirty(defaultCfg, tt.delta, tt.hasRecord)
			if got != tt.want {
				t.Errorf("Dirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_EndToEnd(t *testing.T) {
	configurations := []types.Configuration{defaultCfg, featureCfg}
	records := map[string]types.BuildRecord{
		"default": {Version: 0, MainVersion: "1.0"},
		"feature": {Version: 0, MainVersion: "1.0"},
	}
	previous := types.RefMap{mainline: "m1", "pr/42": "p1"}

	tests := []struct {
		name    string
		current types.RefMap
		want    map[string]changes.Action
	}{
		{
			name:    "mainline tip changes",
			current: types.RefMap{mainline: "m2", "pr/42": "p1"},
			want:    map[string]changes.Action{"default": changes.ActionBuild, "feature": changes.ActionBuild},
		},
		{
			name:    "only pr branch changes",
			current: types.RefMap{mainline: "m1", "pr/42": "p2"},
			want:    map[string]changes.Action{"default": changes.ActionUpToDate, "feature": changes.ActionBuild},
		},
		{
			name:    "nothing changes",
			current: types.RefMap{mainline: "m1", "pr/42": "p1"},
			want:    map[string]changes.Action{"default": changes.ActionUpToDate, "feature": changes.ActionUpToDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := changes.NewPlanner(changes.Options{Mainline: mainline})
			decisions := planner.Plan(configurations, tt.current, changes.Delta(previous, tt.current), records)

			if len(decisions) != 2 {
				t.Fatalf("expected 2 decisions, got %d", len(decisions))
			}
			for _, d := range decisions {
				if d.Action != tt.want[d.Configuration.Name] {
					t.Errorf("%s: expected %s, got %s", d.Configuration.Name, tt.want[d.Configuration.Name], d.Action)
				}
			}
		})
	}
}

func TestPlan_MissingBranch(t *testing.T) {
	planner := changes.NewPlanner(changes.Options{Mainline: mainline})
	current := types.RefMap{mainline: "m1"}

	decisions := planner.Plan([]types.Configuration{defaultCfg, featureCfg}, current, changes.Delta(nil, current), nil)

	if decisions[0].Action != changes.ActionBuild {
		t.Errorf("expected default to build, got %s", decisions[0].Action)
	}
	if decisions[1].Action != changes.ActionMissing {
		t.Fatalf("expected feature to be skipped as missing, got %s", decisions[1].Action)
	}
	if len(decisions[1].Missing) != 1 || decisions[1].Missing[0] != "pr/42" {
		t.Errorf("unexpected missing list %v", decisions[1].Missing)
	}
}

func TestPlan_NoBuild(t *testing.T) {
	planner := changes.NewPlanner(changes.Options{Mainline: mainline, Force: true, NoBuild: true})
	current := types.RefMap{mainline: "m1", "pr/42": "p1"}

	for _, d := range planner.Plan([]types.Configuration{defaultCfg, featureCfg}, current, changes.Delta(nil, current), nil) {
		if d.Action != changes.ActionDisabled {
			t.Errorf("%s: expected disabled, got %s", d.Configuration.Name, d.Action)
		}
	}
}

func TestPlan_Reasons(t *testing.T) {
	current := types.RefMap{mainline: "m1", "pr/42": "p2"}
	previous := types.RefMap{mainline: "m1", "pr/42": "p1"}
	records := map[string]types.BuildRecord{"feature": {}}

	planner := changes.NewPlanner(changes.Options{Mainline: mainline})
	decisions := planner.Plan([]types.Configuration{defaultCfg, featureCfg}, current, changes.Delta(previous, current), records)

	if decisions[0].Reason != changes.ReasonNoRecord {
		t.Errorf("expected default dirty for lack of record, got %q", decisions[0].Reason)
	}
	if decisions[1].Reason != changes.ReasonBranch {
		t.Errorf("expected feature dirty for branch change, got %q", decisions[1].Reason)
	}
}
