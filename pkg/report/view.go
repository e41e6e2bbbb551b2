// Package report renders the status page and data dump for recorded builds
package report

import (
	"time"

	"github.com/c3i/c3i/pkg/config"
)

// Ref is one branch a build was made from
type Ref struct {
	Name     string `json:"name" yaml:"name"`
	Sha      string `json:"sha" yaml:"sha"`
	ShaShort string `json:"sha_short" yaml:"sha_short"`
	Msg      string `json:"msg" yaml:"msg"`
}

// Build is the rendering view of a configuration's last successful build
type Build struct {
	Name           string `json:"name" yaml:"name"`
	config.Display `yaml:",inline"`
	Version        int    `json:"version" yaml:"version"`
	MainVersion    string `json:"main_version" yaml:"main_version"`
	FullVersion    string `json:"full_version" yaml:"full_version"`
	ArtifactID     string `json:"artifact_id" yaml:"artifact_id"`
	RootFolder     string `json:"root_folder" yaml:"root_folder"`
	File           string `json:"file" yaml:"file"`
	Recommended    bool   `json:"recommended" yaml:"recommended"`
	Refs           []Ref  `json:"refs" yaml:"refs"`
}

// Context is everything the page template sees
type Context struct {
	HTMLURL       string            `json:"html-url" yaml:"html-url"`
	Group         string            `json:"group" yaml:"group"`
	ArtifactName  string            `json:"artifact-name" yaml:"artifact-name"`
	Mainline      string            `json:"mainline" yaml:"mainline"`
	HTMLResources map[string]string `json:"html-resources" yaml:"html-resources"`
	Recommended   []Build           `json:"recommended" yaml:"recommended"`
	All           []Build           `json:"all" yaml:"all"`
	Generated     time.Time         `json:"generated" yaml:"generated"`
}
