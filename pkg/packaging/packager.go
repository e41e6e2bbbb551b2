package packaging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/types"
	"github.com/c3i/c3i/pkg/utils"
)

// Options configure a Packager
type Options struct {
	// Output is the root of the local package repository
	Output string
	// Group is the Maven group id, e.g. dan200.computercraft
	Group string
	// BaseName is the artifact base name, e.g. ComputerCraft
	BaseName string
	// BundledLibrary is spliced into the artifact when the file exists
	BundledLibrary string
}

// Result describes a published build
type Result struct {
	Record      types.BuildRecord
	Coordinates Coordinates
	JarPath     string
	PomPath     string
}

// Packager publishes built jars into the package repository
type Packager struct {
	opts   Options
	logger logger.Logger
}

// NewPackager creates a packager
func NewPackager(opts Options, log logger.Logger) *Packager {
	if log == nil {
		log = logger.Discard()
	}
	return &Packager{opts: opts, logger: log}
}

// Version computes the build record (without refs) for a new artifact of a configuration
func (p *Packager) Version(artifact string, previous types.BuildRecord, hasPrevious bool) types.BuildRecord {
	mainVersion := MainVersion(artifact, p.opts.BaseName)
	return types.BuildRecord{
		Version:     NextBuildNumber(previous, hasPrevious, mainVersion),
		MainVersion: mainVersion,
	}
}

// Publish splices the bundled library into the artifact, moves it into the
// package repository and writes its POM
func (p *Packager) Publish(artifact, configuration string, record types.BuildRecord) (*Result, error) {
	log := p.logger.WithConfiguration(configuration)
	coords := NewCoordinates(p.opts.Group, p.opts.BaseName, configuration, record)

	if p.opts.BundledLibrary != "" && utils.FileExists(p.opts.BundledLibrary) {
		added, err := SpliceLibrary(artifact, p.opts.BundledLibrary)
		if err != nil {
			return nil, fmt.Errorf("failed to bundle %s: %w", filepath.Base(p.opts.BundledLibrary), err)
		}
		log.Debug("Bundled library",
			logger.WithField("library", filepath.Base(p.opts.BundledLibrary)),
			logger.WithField("entries", added))
	}

	jarPath := coords.JarPath(p.opts.Output)
	if err := utils.MoveFile(artifact, jarPath); err != nil {
		return nil, fmt.Errorf("failed to publish artifact: %w", err)
	}

	pom, err := POM(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to render pom: %w", err)
	}
	pomPath := coords.PomPath(p.opts.Output)
	if err := os.WriteFile(pomPath, pom, 0644); err != nil {
		return nil, fmt.Errorf("failed to write pom: %w", err)
	}

	log.Info("Published artifact",
		logger.WithField("artifact", coords.ArtifactID),
		logger.WithField("version", coords.Version))

	return &Result{
		Record:      record,
		Coordinates: coords,
		JarPath:     jarPath,
		PomPath:     pomPath,
	}, nil
}
