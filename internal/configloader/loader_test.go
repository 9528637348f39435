package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gorazor/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.RootNamespace != config.DefaultRootNamespace {
		t.Errorf("expected namespace %q, got %q", config.DefaultRootNamespace, result.Config.RootNamespace)
	}
	if result.Config.LanguageVersion != config.LanguageLatest {
		t.Errorf("expected language %q, got %q", config.LanguageLatest, result.Config.LanguageVersion)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no files loaded, got %v", result.LoadedFrom)
	}

	abs, _ := filepath.Abs(tmpDir)
	if result.ProjectRoot != abs {
		t.Errorf("expected project root %q, got %q", abs, result.ProjectRoot)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".gorazor.yml")
	writeConfig(t, configPath, `
root_namespace: Shop.Views
language_version: "2.1"
mvc: true
catalog:
  - taghelpers.yaml
`)

	// Load from a subdirectory: the config is found by searching upward
	sub := filepath.Join(tmpDir, "Views", "Home")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.RootNamespace != "Shop.Views" {
		t.Errorf("expected namespace Shop.Views, got %q", cfg.RootNamespace)
	}
	if cfg.LanguageVersion != config.Language2_1 {
		t.Errorf("expected language 2.1, got %q", cfg.LanguageVersion)
	}
	if !cfg.MVC {
		t.Error("expected mvc to be enabled")
	}
	if cfg.IndentSize != config.DefaultIndentSize {
		t.Errorf("expected default indent size, got %d", cfg.IndentSize)
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != configPath {
		t.Errorf("expected LoadedFrom [%s], got %v", configPath, result.LoadedFrom)
	}

	want := filepath.Join(tmpDir, "taghelpers.yaml")
	if got := result.Resolve(cfg.Catalog[0]); got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".gorazor.yml"), "root_namespace: Project\n")
	explicit := filepath.Join(tmpDir, "ci", "gorazor.yaml")
	writeConfig(t, explicit, "output_dir: out\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.RootNamespace != config.DefaultRootNamespace {
		t.Errorf("project config should be skipped, got namespace %q", result.Config.RootNamespace)
	}
	if result.ProjectRoot != filepath.Dir(explicit) {
		t.Errorf("expected project root %q, got %q", filepath.Dir(explicit), result.ProjectRoot)
	}
	if got := result.Resolve(result.Config.OutputDir); got != filepath.Join(tmpDir, "ci", "out") {
		t.Errorf("unexpected output dir %q", got)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".gorazor.yml"), "root_namespace: Project\nindent_size: 2\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{RootNamespace: "Cli", DesignTime: true, Jobs: 3}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.RootNamespace != "Cli" || !cfg.DesignTime || cfg.Jobs != 3 {
		t.Errorf("CLI values not applied: %+v", cfg)
	}
	if cfg.IndentSize != 2 {
		t.Errorf("expected indent size from file, got %d", cfg.IndentSize)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GORAZOR_ROOT_NAMESPACE", "FromEnv")
	t.Setenv("GORAZOR_MVC", "true")
	t.Setenv("GORAZOR_IGNORE", "bin/**, obj/**")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.RootNamespace != "FromEnv" || !cfg.MVC {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[1] != "obj/**" {
		t.Errorf("unexpected ignore %v", cfg.Ignore)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("GORAZOR_JOBS", "many")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected error for invalid GORAZOR_JOBS")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown key", content: "flavor: gfm\n", want: "flavor"},
		{name: "bad yaml", content: "root_namespace: [\n", want: "parse YAML"},
		{name: "bad language", content: "language_version: \"4.0\"\n", want: "language_version"},
		{name: "bad newline", content: "newline: cr\n", want: "newline"},
		{name: "bad namespace", content: "root_namespace: 1Shop\n", want: "root_namespace"},
		{name: "bad extension", content: "extensions: [cshtml]\n", want: "extensions[0]"},
		{name: "bad catalog", content: "catalog: [helpers.xml]\n", want: "catalog[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, ".gorazor.yml")
			writeConfig(t, configPath, tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ValidationErrorCarriesFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".gorazor.yml")
	writeConfig(t, configPath, "newline: cr\n")

	_, err := Load(context.Background(), isolated(tmpDir))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.FilePath != configPath || verr.Field != "newline" {
		t.Errorf("unexpected validation error %+v", verr)
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".gorazor.yml"), "extensions: [.cshtml, .CSHTML]\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "more than once") {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, filepath.Join(outer, ".gorazor.yml"), "mvc: true\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if got != "" {
		t.Errorf("expected no config past the VCS root, got %q", got)
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	got := MergeAll(
		config.NewConfig(),
		&config.Config{Extensions: []string{".razor"}, SuppressChecksum: true},
		&config.Config{RootNamespace: "Last"},
	)

	if got.RootNamespace != "Last" || !got.SuppressChecksum {
		t.Errorf("unexpected merge result %+v", got)
	}
	if len(got.Extensions) != 1 || got.Extensions[0] != ".razor" {
		t.Errorf("slices should be replaced, got %v", got.Extensions)
	}
	if MergeAll() != nil {
		t.Error("MergeAll() of nothing should be nil")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envMappings) {
		t.Fatalf("expected %d vars, got %d", len(envMappings), len(vars))
	}
	for i := 1; i < len(vars); i++ {
		if vars[i-1].Name >= vars[i].Name {
			t.Errorf("vars not sorted: %s before %s", vars[i-1].Name, vars[i].Name)
		}
	}
	if GetEnvVarName("mvc") != "GORAZOR_MVC" {
		t.Errorf("GetEnvVarName(mvc) = %q", GetEnvVarName("mvc"))
	}
}
