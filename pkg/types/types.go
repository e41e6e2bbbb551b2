// Package types provides core types shared across c3i
package types

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultConfigurationName is the configuration built from the mainline alone
const DefaultConfigurationName = "default"

// BuildStatus represents the position of a configuration in the build cycle
type BuildStatus string

const (
	BuildStatusClean     BuildStatus = "clean"
	BuildStatusMerging   BuildStatus = "merging"
	BuildStatusBuilding  BuildStatus = "building"
	BuildStatusPackaging BuildStatus = "packaging"
	BuildStatusRecorded  BuildStatus = "recorded"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusSkipped   BuildStatus = "skipped"
)

// Configuration is a named combination of the mainline plus feature branches
type Configuration struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Desc     string   `json:"desc" yaml:"desc" mapstructure:"desc"`
	Branches []string `json:"branches" yaml:"branches" mapstructure:"branches"`
	PR       string   `json:"pr,omitempty" yaml:"pr,omitempty" mapstructure:"pr"`
}

// Validate checks that a configuration can be built
func (c Configuration) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", c.Name)
	}
	for _, branch := range c.Branches {
		if branch == "" {
			return fmt.Errorf("configuration %s has an empty branch name", c.Name)
		}
	}
	return nil
}

// RefMap maps a remote branch name (such as origin/master) to a commit id
type RefMap map[string]string

// Clone returns a copy of the map
func (r RefMap) Clone() RefMap {
	out := make(RefMap, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Branches returns the branch names in sorted order
func (r RefMap) Branches() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRecord describes the last successful build of a configuration
type BuildRecord struct {
	Version     int    `json:"version" yaml:"version"`
	MainVersion string `json:"main_version" yaml:"main_version"`
	Refs        RefMap `json:"refs" yaml:"refs"`
}

// FullVersion is the published version string, e.g. 1.80pr1-build3
func (r BuildRecord) FullVersion() string {
	return fmt.Sprintf("%s-build%d", r.MainVersion, r.Version)
}

// PullRequest is an open pull request discovered on the upstream repository
type PullRequest struct {
	Number int
	Branch string
	Desc   string
	Link   string
	// Repo is the fork clone URL, empty when the fork was deleted
	Repo string
	// Name is the fork's full name, used as the remote name
	Name string
}

// RemoteBranch is the remote-tracking branch this pull request is fetched into
func (p PullRequest) RemoteBranch() string {
	return p.Name + "/" + p.Branch
}

// Configuration converts the pull request into a build configuration
func (p PullRequest) Configuration() Configuration {
	return Configuration{
		Name:     strings.ReplaceAll(p.Name, "/", "-") + "-" + strings.ReplaceAll(p.Branch, "/", "-"),
		Desc:     p.Desc,
		PR:       p.Link,
		Branches: []string{p.RemoteBranch()},
	}
}
