package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/packaging"
	"github.com/c3i/c3i/pkg/types"
	"github.com/c3i/c3i/pkg/utils"
)

// MainTemplate is the template rendered into the page
const MainTemplate = "main"

const shortShaLength = 8

// CommitReader looks up commit messages for the refs of a build
type CommitReader interface {
	Commit(hash string) (interfaces.CommitSummary, error)
}

// Generator builds the report context and writes the page and dump
type Generator struct {
	cfg     *config.Config
	commits CommitReader
	logger  logger.Logger
	now     func() time.Time
}

// NewGenerator creates a generator
func NewGenerator(cfg *config.Config, commits CommitReader, log logger.Logger) *Generator {
	if log == nil {
		log = logger.Discard()
	}
	return &Generator{cfg: cfg, commits: commits, logger: log, now: time.Now}
}

// BuildContext combines the recorded builds of the configurations into a
// rendering context. Configurations without a record are left out.
func (g *Generator) BuildContext(configurations []types.Configuration, records map[string]types.BuildRecord) (*Context, error) {
	resources, err := g.hashResources()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		HTMLURL:       g.cfg.HTMLURL,
		Group:         g.cfg.Group,
		ArtifactName:  g.cfg.ArtifactName,
		Mainline:      g.cfg.Mainline,
		HTMLResources: resources,
		Recommended:   []Build{},
		All:           []Build{},
		Generated:     g.now().UTC(),
	}

	known := make(map[string]types.Configuration, len(configurations))
	for _, cfg := range configurations {
		known[cfg.Name] = cfg
	}

	for _, entry := range g.cfg.Recommended {
		record, ok := records[entry.Name]
		if !ok {
			continue
		}
		build, err := g.build(known[entry.Name], entry.Name, record, entry.Display)
		if err != nil {
			return nil, err
		}
		ctx.Recommended = append(ctx.Recommended, build)
	}

	for _, cfg := range configurations {
		record, ok := records[cfg.Name]
		if !ok {
			continue
		}
		build, err := g.build(cfg, cfg.Name, record, config.Display{})
		if err != nil {
			return nil, err
		}
		ctx.All = append(ctx.All, build)
	}

	return ctx, nil
}

// Render executes the main template from the template directory
func (g *Generator) Render(ctx *Context) ([]byte, error) {
	pattern := filepath.Join(g.cfg.TemplateDir, "*.html")
	tmpl, err := template.New("").Funcs(sprig.FuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", g.cfg.TemplateDir, err)
	}

	main := tmpl.Lookup(MainTemplate)
	if main == nil {
		main = tmpl.Lookup(MainTemplate + ".html")
	}
	if main == nil {
		return nil, fmt.Errorf("no %q template in %s", MainTemplate, g.cfg.TemplateDir)
	}

	var buf bytes.Buffer
	if err := main.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", MainTemplate, err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the page and writes it to html-out
func (g *Generator) WriteHTML(ctx *Context) error {
	page, err := g.Render(ctx)
	if err != nil {
		return err
	}

	g.logger.Info("Writing HTML", logger.WithField("path", g.cfg.HTMLOut))
	if err := utils.WriteFileAtomic(g.cfg.HTMLOut, page); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.cfg.HTMLOut, err)
	}
	return nil
}

// Dump writes the context as YAML for .yaml/.yml paths and JSON otherwise
func (g *Generator) Dump(ctx *Context, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(ctx)
	default:
		data, err = json.MarshalIndent(ctx, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	g.logger.Info("Writing dump", logger.WithField("path", path))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Private methods

// build creates the view of one record. Display fields are layered: the
// configuration itself, then any named override, then the extra layer given.
func (g *Generator) build(cfg types.Configuration, name string, record types.BuildRecord, extra config.Display) (Build, error) {
	coords := packaging.NewCoordinates(g.cfg.Group, g.cfg.ArtifactName, name, record)

	display := config.Display{Desc: cfg.Desc, PR: cfg.PR}
	for _, override := range g.cfg.Overrides {
		if override.Name != name {
			continue
		}
		if err := mergo.Merge(&display, override.Display, mergo.WithOverride); err != nil {
			return Build{}, fmt.Errorf("failed to apply override for %s: %w", name, err)
		}
	}
	if err := mergo.Merge(&display, extra, mergo.WithOverride); err != nil {
		return Build{}, fmt.Errorf("failed to apply recommendation for %s: %w", name, err)
	}

	return Build{
		Name:        name,
		Display:     display,
		Version:     record.Version,
		MainVersion: record.MainVersion,
		FullVersion: coords.Version,
		ArtifactID:  coords.ArtifactID,
		RootFolder:  coords.RootFolder(),
		File:        coords.File(),
		Recommended: g.cfg.IsRecommended(name),
		Refs:        g.refs(name, record.Refs),
	}, nil
}

// refs resolves each branch of a record, mainline first then by name
func (g *Generator) refs(name string, refs types.RefMap) []Ref {
	out := make([]Ref, 0, len(refs))
	for _, branch := range refs.Branches() {
		sha := refs[branch]
		ref := Ref{Name: branch, Sha: sha, ShaShort: sha}
		if len(sha) > shortShaLength {
			ref.ShaShort = sha[:shortShaLength]
		}

		if g.commits != nil {
			commit, err := g.commits.Commit(sha)
			if err != nil {
				g.logger.WithConfiguration(name).Warn("Commit not found",
					logger.WithField("branch", branch),
					logger.WithField("sha", ref.ShaShort))
			} else {
				ref.Msg = commit.Summary
			}
		}
		out = append(out, ref)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Name == g.cfg.Mainline) != (out[j].Name == g.cfg.Mainline) {
			return out[i].Name == g.cfg.Mainline
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (g *Generator) hashResources() (map[string]string, error) {
	hashes := make(map[string]string, len(g.cfg.HTMLResources))
	for name, path := range g.cfg.HTMLResources {
		hash, err := utils.HashFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to hash resource %s: %w", name, err)
		}
		hashes[name] = hash
	}
	return hashes, nil
}
