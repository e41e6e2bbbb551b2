package report_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/report"
	"github.com/c3i/c3i/pkg/types"
)

const (
	masterSha  = "1111111111111111111111111111111111111111"
	featureSha = "2222222222222222222222222222222222222222"
	goneSha    = "3333333333333333333333333333333333333333"
)

type fakeCommits map[string]string

func (f fakeCommits) Commit(hash string) (interfaces.CommitSummary, error) {
	summary, ok := f[hash]
	if !ok {
		return interfaces.CommitSummary{}, errors.New("object not found")
	}
	return interfaces.CommitSummary{Hash: hash, Summary: summary}, nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewManagerAt(t.TempDir()).GetDefaultConfig()
	cfg.HTMLResources = map[string]string{}
	cfg.TemplateDir = t.TempDir()
	cfg.HTMLOut = filepath.Join(t.TempDir(), "index.html")
	cfg.Overrides = []config.Override{
		{Name: "feature", Display: config.Display{Label: "Feature build", Notes: "experimental"}},
	}
	cfg.Recommended = []config.Override{
		{Name: "default"},
		{Name: "feature", Display: config.Display{Notes: "try me"}},
		{Name: "never-built"},
	}
	return cfg
}

func testInputs() ([]types.Configuration, map[string]types.BuildRecord) {
	configurations := []types.Configuration{
		{Name: "default", Desc: "ComputerCraft"},
		{Name: "feature", Desc: "Turtles", PR: "https://example.com/pull/3", Branches: []string{"alice/feature"}},
		{Name: "unbuilt", Desc: "Nothing yet"},
	}
	records := map[string]types.BuildRecord{
		"default": {Version: 2, MainVersion: "1.80", Refs: types.RefMap{"origin/master": masterSha}},
		"feature": {Version: 0, MainVersion: "1.80", Refs: types.RefMap{
			"alice/feature": featureSha,
			"origin/master": masterSha,
			"zed/gone":      goneSha,
		}},
	}
	return configurations, records
}

func TestBuildContext(t *testing.T) {
	cfg := testConfig(t)
	commits := fakeCommits{masterSha: "Release 1.80", featureSha: "Faster turtles"}
	generator := report.NewGenerator(cfg, commits, nil)

	configurations, records := testInputs()
	ctx, err := generator.BuildContext(configurations, records)
	require.NoError(t, err)

	require.Len(t, ctx.All, 2, "configurations without a record are omitted")
	assert.Equal(t, "default", ctx.All[0].Name)
	assert.Equal(t, "feature", ctx.All[1].Name)

	def := ctx.All[0]
	assert.Equal(t, "ComputerCraft", def.Desc)
	assert.Equal(t, "1.80-build2", def.FullVersion)
	assert.Equal(t, "dan200/computercraft/ComputerCraft/", def.RootFolder)
	assert.Equal(t, "1.80-build2/ComputerCraft-1.80-build2.jar", def.File)
	assert.True(t, def.Recommended)

	feature := ctx.All[1]
	assert.Equal(t, "Turtles", feature.Desc, "override keeps fields it does not set")
	assert.Equal(t, "Feature build", feature.Label)
	assert.Equal(t, "experimental", feature.Notes)
	assert.Equal(t, "ComputerCraft-feature", feature.ArtifactID)

	require.Len(t, feature.Refs, 3)
	assert.Equal(t, "origin/master", feature.Refs[0].Name, "mainline sorts first")
	assert.Equal(t, "alice/feature", feature.Refs[1].Name)
	assert.Equal(t, "zed/gone", feature.Refs[2].Name)
	assert.Equal(t, "11111111", feature.Refs[0].ShaShort)
	assert.Equal(t, "Release 1.80", feature.Refs[0].Msg)
	assert.Equal(t, "Faster turtles", feature.Refs[1].Msg)
	assert.Empty(t, feature.Refs[2].Msg, "unknown commits have no message")

	require.Len(t, ctx.Recommended, 2, "recommendations without a record are omitted")
	assert.Equal(t, "default", ctx.Recommended[0].Name)
	assert.Equal(t, "try me", ctx.Recommended[1].Notes, "recommendation layer wins")
	assert.Equal(t, "Feature build", ctx.Recommended[1].Label)
}

func TestBuildContext_ResourceHashes(t *testing.T) {
	cfg := testConfig(t)
	style := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(style, []byte("abc"), 0644))
	cfg.HTMLResources = map[string]string{"style": style}

	ctx, err := report.NewGenerator(cfg, nil, nil).BuildContext(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", ctx.HTMLResources["style"])

	cfg.HTMLResources["missing"] = filepath.Join(t.TempDir(), "missing.css")
	_, err = report.NewGenerator(cfg, nil, nil).BuildContext(nil, nil)
	assert.Error(t, err)
}

func TestWriteHTML(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplateDir, "main.html"), []byte(
		`{{ range .All }}<a href="{{ $.HTMLURL }}{{ .RootFolder }}{{ .File }}">{{ upper .Name }}</a>{{ end }}`), 0644))

	generator := report.NewGenerator(cfg, fakeCommits{}, nil)
	configurations, records := testInputs()
	ctx, err := generator.BuildContext(configurations, records)
	require.NoError(t, err)

	require.NoError(t, generator.WriteHTML(ctx))

	page, err := os.ReadFile(cfg.HTMLOut)
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a href="out/dan200/computercraft/ComputerCraft/1.80-build2/ComputerCraft-1.80-build2.jar">DEFAULT</a>`)
	assert.Contains(t, string(page), ">FEATURE</a>")
}

func TestRender_DefaultTemplate(t *testing.T) {
	cfg := testConfig(t)
	written, err := report.WriteDefaultTemplate(cfg.TemplateDir)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = report.WriteDefaultTemplate(cfg.TemplateDir)
	require.NoError(t, err)
	assert.False(t, written, "existing template is kept")

	generator := report.NewGenerator(cfg, fakeCommits{masterSha: "Release <1.80>"}, nil)
	configurations, records := testInputs()
	ctx, err := generator.BuildContext(configurations, records)
	require.NoError(t, err)

	page, err := generator.Render(ctx)
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "Feature build")
	assert.Contains(t, html, "ComputerCraft-feature-1.80-build0.jar")
	assert.Contains(t, html, "Release &lt;1.80&gt;", "commit messages are escaped")
	assert.Equal(t, 2, strings.Count(html, "<h2>"))
}

func TestRender_MissingTemplate(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplateDir, "other.html"), []byte("x"), 0644))

	_, err := report.NewGenerator(cfg, nil, nil).Render(&report.Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"main"`)
}

func TestDump(t *testing.T) {
	cfg := testConfig(t)
	generator := report.NewGenerator(cfg, fakeCommits{}, nil)
	configurations, records := testInputs()
	ctx, err := generator.BuildContext(configurations, records)
	require.NoError(t, err)

	jsonPath := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, generator.Dump(ctx, jsonPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "html-url")
	assert.Len(t, decoded["all"], 2)
	first := decoded["all"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "ComputerCraft", first["desc"])
	assert.Equal(t, "1.80-build2/ComputerCraft-1.80-build2.jar", first["file"])

	yamlPath := filepath.Join(t.TempDir(), "dump.yml")
	require.NoError(t, generator.Dump(ctx, yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var decodedYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decodedYAML))
	assert.Len(t, decodedYAML["recommended"], 2)
	assert.Contains(t, string(data), "root_folder: dan200/computercraft/ComputerCraft/")
}
