// Package builders runs the external build tool inside the checkout
package builders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/utils"
)

var (
	// ErrBuildFailed indicates the build command exited unsuccessfully
	ErrBuildFailed = errors.New("build failed")

	// ErrNoArtifact indicates the build produced no usable jar
	ErrNoArtifact = errors.New("no artifact found")
)

// Options configure a CommandBuilder
type Options struct {
	// Dir is the checkout the command runs in
	Dir string
	// Command is the build command line, e.g. ./gradlew -q clean build
	Command string
	// ArtifactDir is where the build leaves its jars, relative to Dir
	ArtifactDir string
	// LogDir receives one <configuration>.log per configuration; empty disables build logs
	LogDir string
}

// CommandBuilder runs a shell build command and finds the jar it produced
type CommandBuilder struct {
	opts   Options
	logger logger.Logger
}

var _ interfaces.Builder = (*CommandBuilder)(nil)

// NewCommandBuilder creates a builder
func NewCommandBuilder(opts Options, log logger.Logger) *CommandBuilder {
	if log == nil {
		log = logger.Discard()
	}
	return &CommandBuilder{opts: opts, logger: log}
}

// Validate validates the builder configuration
func (b *CommandBuilder) Validate() error {
	if !utils.DirectoryExists(b.opts.Dir) {
		return fmt.Errorf("checkout does not exist: %s", b.opts.Dir)
	}
	if strings.TrimSpace(b.opts.Command) == "" {
		return fmt.Errorf("no build command defined")
	}
	return nil
}

// Build executes the build command for the named configuration
func (b *CommandBuilder) Build(ctx context.Context, configuration string) error {
	startTime := time.Now()

	log := b.logger.WithConfiguration(configuration)

	logFile, err := b.prepareLogFile(configuration)
	if err != nil {
		log.Warn("Failed to create build log", logger.WithField("error", err))
	}
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	b.logToFile(logFile, fmt.Sprintf("\n=== Build Started at %s ===\n", timestamp))
	b.logToFile(logFile, fmt.Sprintf("Executing: %s\n", b.opts.Command))

	cmd := b.createCommand(ctx, b.opts.Command)
	cmd.Dir = b.opts.Dir
	cmd.Env = append(os.Environ(), "C3I_CONFIGURATION="+configuration)

	// Capture output with tee to log file
	var output tail
	var writer io.Writer = &output
	if logFile != nil {
		writer = io.MultiWriter(&output, logFile)
	}
	cmd.Stdout = writer
	cmd.Stderr = writer

	log.Info("Building", logger.WithField("command", b.opts.Command))
	err = cmd.Run()

	duration := time.Since(startTime)
	if err != nil {
		log.Error("Build failed",
			logger.WithField("error", err),
			logger.WithField("output", output.String()))
		b.logToFile(logFile, fmt.Sprintf("\n=== Build FAILED after %s ===\n", duration))
		b.logToFile(logFile, fmt.Sprintf("Error: %v\n", err))
		return fmt.Errorf("%w: %s: %v", ErrBuildFailed, configuration, err)
	}

	log.Debug("Build finished",
		logger.WithField("duration", utils.FormatDuration(duration)))
	b.logToFile(logFile, fmt.Sprintf("\n=== Build SUCCEEDED after %s ===\n", duration))

	return nil
}

// LocateArtifact returns the newest jar in the artifact directory that is not a sources jar
func (b *CommandBuilder) LocateArtifact() (string, error) {
	dir := b.resolvePath(b.opts.ArtifactDir)

	path, err := utils.NewestFile(dir, isArtifact)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoArtifact, dir)
		}
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if path == "" {
		return "", fmt.Errorf("%w in %s", ErrNoArtifact, dir)
	}
	return path, nil
}

func isArtifact(name string) bool {
	return strings.HasSuffix(name, ".jar") && !strings.Contains(name, "-sources")
}

// createCommand creates an exec.Cmd from a command string
func (b *CommandBuilder) createCommand(ctx context.Context, command string) *exec.Cmd {
	if strings.ContainsAny(command, "&|;<>$`'\"") {
		// Complex command - use shell
		return exec.CommandContext(ctx, "sh", "-c", command)
	}

	// Simple command - parse directly
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return exec.CommandContext(ctx, "sh", "-c", command)
	}
	name := parts[0]
	if strings.ContainsRune(name, filepath.Separator) {
		// ./gradlew is relative to the checkout, not our working directory
		name = b.resolvePath(name)
	}
	return exec.CommandContext(ctx, name, parts[1:]...)
}

// resolvePath resolves a path relative to the checkout
func (b *CommandBuilder) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.opts.Dir, path)
}

// prepareLogFile opens the log file for this configuration in append mode
func (b *CommandBuilder) prepareLogFile(configuration string) (*os.File, error) {
	if b.opts.LogDir == "" {
		return nil, nil
	}
	if err := utils.EnsureDirectory(b.opts.LogDir); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(b.opts.LogDir, configuration+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return logFile, nil
}

// logToFile writes a message to the log file if available
func (b *CommandBuilder) logToFile(logFile *os.File, message string) {
	if logFile != nil {
		logFile.WriteString(message)
	}
}

// tail keeps the last few kilobytes of build output for error reports
type tail struct {
	buf []byte
}

const tailSize = 8 << 10

func (t *tail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > tailSize {
		t.buf = t.buf[len(t.buf)-tailSize:]
	}
	return len(p), nil
}

func (t *tail) String() string {
	return strings.TrimSpace(string(t.buf))
}
