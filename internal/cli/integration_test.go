package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/internal/cli"
	"github.com/yaklabco/gorazor/pkg/reporter"
)

const counterCatalog = `tag_helpers:
  - name: Shop.CounterTagHelper
    assembly: Shop
    documentation: Renders a **counter**.
    rules:
      - tag: counter
    attributes:
      - name: start
        type: System.Int32
        property: Start
`

// newProject writes files under a temporary project root, with a
// .gorazor.yml holding config, and returns the root and config path.
func newProject(t *testing.T, config string, files map[string]string) (string, string) {
	t.Helper()

	root := t.TempDir()
	cfgFile := filepath.Join(root, ".gorazor.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(config), 0644))

	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root, cfgFile
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.Execute()
	return stdout.String() + stderr.String(), err
}

func readOutput(t *testing.T, root, rel string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(root, "obj", "razor", filepath.FromSlash(rel)+".g.cs"))
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_GenerateWritesOutput(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "suppress_checksum: true\n", map[string]string{
		"Views/Index.cshtml": "<p>Hello</p>",
		"Views/site.css":     "p {}",
	})

	output, err := execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, output, "No diagnostics")
	assert.Contains(t, output, "1 written")

	code := readOutput(t, root, "Views/Index.cshtml")
	assert.Contains(t, code, `WriteLiteral("<p>Hello</p>");`)
	assert.Contains(t, code, "namespace Razor")
	assert.NotContains(t, code, "#pragma checksum")

	_, err = os.Stat(filepath.Join(root, "obj", "razor", "Views", "site.css.g.cs"))
	assert.True(t, os.IsNotExist(err), "only templates are compiled")

	// A second run finds nothing to rewrite, and does not compile its own output.
	output, err = execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, output, "1 file compiled")
	assert.NotContains(t, output, "written")
}

func TestIntegration_GenerateSelectedPaths(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "", map[string]string{
		"Views/Home/Index.cshtml": "<p>Home</p>",
		"Views/About.cshtml":      "<p>About</p>",
	})

	_, err := execute(t, "generate", "--config", cfgFile, filepath.Join(root, "Views", "Home"))
	require.NoError(t, err)

	readOutput(t, root, "Views/Home/Index.cshtml")
	_, err = os.Stat(filepath.Join(root, "obj", "razor", "Views", "About.cshtml.g.cs"))
	assert.True(t, os.IsNotExist(err))
}

func TestIntegration_GenerateReportsErrors(t *testing.T) {
	t.Parallel()

	_, cfgFile := newProject(t, "", map[string]string{
		"Views/Broken.cshtml": "@inherits A\n@inherits B\n",
	})

	output, err := execute(t, "generate", "--config", cfgFile, "--no-write")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrCompileErrorsFound))
	assert.Contains(t, output, "/Views/Broken.cshtml")
	assert.Contains(t, output, "RZ2001")
	assert.Contains(t, output, "The 'inherits' directive may only occur once per document.")
	assert.Contains(t, output, "2:1")
}

func TestIntegration_GenerateJSON(t *testing.T) {
	t.Parallel()

	_, cfgFile := newProject(t, "", map[string]string{
		"Views/Index.cshtml":  "<p>@Model</p>",
		"Views/Broken.cshtml": "@inherits A\n@inherits B\n",
	})

	cmd := cli.NewRootCommand(testInfo())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "--config", cfgFile, "--format", "json", "--no-write"})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrCompileErrorsFound)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Len(t, out.Files, 2)
	assert.Equal(t, 2, out.Summary.FilesCompiled)
	assert.Equal(t, 1, out.Summary.FilesWithErrors)
	assert.Equal(t, 0, out.Summary.FilesWritten)

	broken := out.Files[0]
	assert.Equal(t, "/Views/Broken.cshtml", broken.Path)
	require.Len(t, broken.Diagnostics, 1)
	assert.Equal(t, "RZ2001", broken.Diagnostics[0].ID)
	assert.Equal(t, 2, broken.Diagnostics[0].Line)
	assert.Empty(t, out.Files[1].Diagnostics)
}

func TestIntegration_GenerateWithCatalog(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "catalog:\n  - helpers.yaml\n", map[string]string{
		"helpers.yaml":              counterCatalog,
		"Views/_ViewImports.cshtml": "@addTagHelper *, Shop\n",
		"Views/Index.cshtml":        `<counter start="1"></counter>`,
	})

	_, err := execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)

	code := readOutput(t, root, "Views/Index.cshtml")
	assert.Contains(t, code, "CreateTagHelper<global::Shop.CounterTagHelper>()")
	assert.Contains(t, code, ".Start = 1;")

	_, err = os.Stat(filepath.Join(root, "obj", "razor", "Views", "_ViewImports.cshtml.g.cs"))
	assert.True(t, os.IsNotExist(err), "imports are not compiled on their own")
}

func TestIntegration_GenerateMVC(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "mvc: true\n", map[string]string{
		"Views/Home/Index.cshtml": "@model Shop.Item\n<p>@Model.Name</p>",
	})

	_, err := execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)

	code := readOutput(t, root, "Views/Home/Index.cshtml")
	assert.Contains(t, code, "public class Views_Home_Index : global::Microsoft.AspNetCore.Mvc.Razor.RazorPage<Shop.Item>")
}

func TestIntegration_GenerateDefaultImports(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "default_imports:\n  - Shared/Defaults.cshtml\noutput_dir: gen\n", map[string]string{
		"Shared/Defaults.cshtml": "@using Shop.Models\n",
		"Views/Index.cshtml":     "<p>Hi</p>",
	})

	_, err := execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "gen", "Views", "Index.cshtml.g.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "using Shop.Models;")
}

func TestIntegration_GenerateFlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	root, cfgFile := newProject(t, "root_namespace: Shop.Views\n", map[string]string{
		"Views/Index.cshtml": "<p>Hi</p>",
	})
	out := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "generate", "--config", cfgFile, "--output", out, "--newline", "crlf", "--suppress-checksum")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(out, "Views", "Index.cshtml.g.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "namespace Shop.Views\r\n")

	_, err = os.Stat(filepath.Join(root, "obj"))
	assert.True(t, os.IsNotExist(err))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, cfgFile := newProject(t, "language_version: \"9.9\"\n", nil)

	_, err := execute(t, "generate", "--config", cfgFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrConfig))
}

func TestIntegration_SummaryFormat(t *testing.T) {
	t.Parallel()

	_, cfgFile := newProject(t, "", map[string]string{
		"Views/Index.cshtml":  "<p>Hi</p>",
		"Views/Broken.cshtml": "@inherits A\n@inherits B\n",
	})

	output, err := execute(t, "generate", "--config", cfgFile, "--format", "summary", "--no-write")
	require.ErrorIs(t, err, cli.ErrCompileErrorsFound)
	assert.Contains(t, output, "Templates found:")
	assert.Contains(t, output, "Compilation failed")
	assert.NotContains(t, output, "RZ2001")
}

func TestIntegration_TagHelpers(t *testing.T) {
	t.Parallel()

	_, cfgFile := newProject(t, "catalog:\n  - helpers.yaml\n", map[string]string{
		"helpers.yaml": counterCatalog,
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "taghelpers", "--config", cfgFile)
		require.NoError(t, err)
		assert.Contains(t, output, "NAME")
		assert.Contains(t, output, "Shop.CounterTagHelper")
		assert.Contains(t, output, "counter")
		assert.Contains(t, output, "1 tag helper")
	})

	t.Run("text with docs", func(t *testing.T) {
		t.Parallel()

		output, err := execute(t, "taghelpers", "--config", cfgFile, "--format", "text", "--docs")
		require.NoError(t, err)
		assert.Contains(t, output, "Shop.CounterTagHelper")
		assert.Contains(t, output, "    Renders a counter.")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		cmd := cli.NewRootCommand(testInfo())
		var stdout bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetArgs([]string{"taghelpers", "--config", cfgFile, "--format", "json", "--docs"})
		require.NoError(t, cmd.Execute())

		var infos []struct {
			Name          string   `json:"name"`
			Assembly      string   `json:"assembly"`
			Tags          []string `json:"tags"`
			Attributes    []string `json:"attributes"`
			Documentation string   `json:"documentation"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "Shop.CounterTagHelper", infos[0].Name)
		assert.Equal(t, "Shop", infos[0].Assembly)
		assert.Equal(t, []string{"counter"}, infos[0].Tags)
		assert.Equal(t, []string{"start"}, infos[0].Attributes)
		assert.Equal(t, "Renders a counter.", infos[0].Documentation)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "taghelpers", "--config", cfgFile, "--format", "xml")
		require.Error(t, err)
	})
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, ".gorazor.yml")

	_, err := execute(t, "init", "--output", target)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "language_version")

	_, err = execute(t, "init", "--output", target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrFileExists))

	_, err = execute(t, "init", "--output", target, "--force", "--full")
	require.NoError(t, err)

	full, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Greater(t, len(full), len(content))

	// The generated file is a loadable configuration.
	_, err = execute(t, "generate", "--config", target, "--no-write")
	require.NoError(t, err)
}

func TestIntegration_InitJSON(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "gorazor.json")

	_, err := execute(t, "init", "--output", target, "--format", "json")
	require.NoError(t, err)

	var decoded map[string]any
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Contains(t, decoded, "language_version")

	_, err = execute(t, "init", "--output", target, "--format", "toml")
	require.Error(t, err)
}
