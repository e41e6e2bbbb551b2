// Package packaging turns a built jar into a published Maven artifact
package packaging

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/c3i/c3i/pkg/types"
)

// MainVersion derives the upstream version label from the artifact file name:
// ComputerCraft1.80pr1.jar with base ComputerCraft gives 1.80pr1
func MainVersion(artifactPath, baseName string) string {
	name := filepath.Base(artifactPath)
	name = strings.ReplaceAll(name, baseName, "")
	name = strings.ReplaceAll(name, ".jar", "")
	return strings.Trim(name, "-")
}

// NextBuildNumber returns previous+1 when the upstream version is unchanged,
// otherwise 0. The versions are compared as exact strings.
func NextBuildNumber(previous types.BuildRecord, hasPrevious bool, mainVersion string) int {
	if hasPrevious && previous.MainVersion == mainVersion {
		return previous.Version + 1
	}
	return 0
}

// ArtifactID is the base name for the default configuration and base-name otherwise
func ArtifactID(baseName, configuration string) string {
	if configuration == types.DefaultConfigurationName {
		return baseName
	}
	return baseName + "-" + configuration
}

// Coordinates identify one published artifact
type Coordinates struct {
	Group      string
	ArtifactID string
	Version    string
}

// NewCoordinates builds the coordinates of a configuration's build
func NewCoordinates(group, baseName, configuration string, record types.BuildRecord) Coordinates {
	return Coordinates{
		Group:      group,
		ArtifactID: ArtifactID(baseName, configuration),
		Version:    record.FullVersion(),
	}
}

// GroupPath is the group with dots turned into path segments
func (c Coordinates) GroupPath() string {
	return strings.ReplaceAll(c.Group, ".", "/")
}

// RootFolder is the artifact directory relative to the repository root, with a trailing slash
func (c Coordinates) RootFolder() string {
	return path.Join(c.GroupPath(), c.ArtifactID) + "/"
}

// File is the jar path relative to RootFolder
func (c Coordinates) File() string {
	return path.Join(c.Version, c.FileName(".jar"))
}

// FileName is <artifactId>-<version><ext>
func (c Coordinates) FileName(ext string) string {
	return c.ArtifactID + "-" + c.Version + ext
}

// Dir is the version directory under output
func (c Coordinates) Dir(output string) string {
	return filepath.Join(output, filepath.FromSlash(c.GroupPath()), c.ArtifactID, c.Version)
}

// JarPath is where the jar is published under output
func (c Coordinates) JarPath(output string) string {
	return filepath.Join(c.Dir(output), c.FileName(".jar"))
}

// PomPath is where the descriptor is published under output
func (c Coordinates) PomPath(output string) string {
	return filepath.Join(c.Dir(output), c.FileName(".pom"))
}
