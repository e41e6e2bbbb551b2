package types_test

import (
	"testing"

	"github.com/c3i/c3i/pkg/types"
)

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Configuration
		wantErr bool
	}{
		{
			name:    "default configuration",
			config:  types.Configuration{Name: "default"},
			wantErr: false,
		},
		{
			name:    "with branches",
			config:  types.Configuration{Name: "feature", Branches: []string{"origin/feature"}},
			wantErr: false,
		},
		{
			name:    "missing name",
			config:  types.Configuration{Branches: []string{"origin/feature"}},
			wantErr: true,
		},
		{
			name:    "path separator in name",
			config:  types.Configuration{Name: "a/b"},
			wantErr: true,
		},
		{
			name:    "empty branch",
			config:  types.Configuration{Name: "feature", Branches: []string{""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPullRequest_Configuration(t *testing.T) {
	pr := types.PullRequest{
		Number: 42,
		Branch: "feature/turtles",
		Desc:   "PR #42: Faster turtles",
		Link:   "https://github.com/dan200/ComputerCraft/pull/42",
		Repo:   "https://github.com/alice/ComputerCraft.git",
		Name:   "alice/ComputerCraft",
	}

	cfg := pr.Configuration()

	if cfg.Name != "alice-ComputerCraft-feature-turtles" {
		t.Errorf("unexpected name %s", cfg.Name)
	}
	if len(cfg.Branches) != 1 || cfg.Branches[0] != "alice/ComputerCraft/feature/turtles" {
		t.Errorf("unexpected branches %v", cfg.Branches)
	}
	if cfg.PR != pr.Link {
		t.Errorf("expected pr link %s, got %s", pr.Link, cfg.PR)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected derived configuration to be valid: %v", err)
	}
}

func TestBuildRecord_FullVersion(t *testing.T) {
	record := types.BuildRecord{Version: 3, MainVersion: "1.80pr1"}
	if got := record.FullVersion(); got != "1.80pr1-build3" {
		t.Errorf("expected 1.80pr1-build3, got %s", got)
	}
}

func TestRefMap_CloneIsIndependent(t *testing.T) {
	refs := types.RefMap{"origin/master": "abc"}
	clone := refs.Clone()
	clone["origin/master"] = "def"

	if refs["origin/master"] != "abc" {
		t.Error("expected original map to be unchanged")
	}
	if got := refs.Branches(); len(got) != 1 || got[0] != "origin/master" {
		t.Errorf("unexpected branches %v", got)
	}
}
