package project_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorazor/pkg/project"
	"github.com/yaklabco/gorazor/pkg/source"
)

func paths(items []project.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want project.FileKind
	}{
		{"Views/Home/Index.cshtml", project.FileKindTemplate},
		{"Shared/Counter.razor", project.FileKindTemplate},
		{"Views/_ViewImports.cshtml", project.FileKindImport},
		{"Views/_viewimports.cshtml", project.FileKindImport},
		{"site.css", project.FileKindOther},
		{"README.md", project.FileKindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, project.Classify(tt.path))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/a/b.cshtml", project.NormalizePath("a/b.cshtml"))
	assert.Equal(t, "/a/b.cshtml", project.NormalizePath("/a/./c/../b.cshtml"))
	assert.Equal(t, "/", project.NormalizePath(""))
}

func TestMemory_GetItem(t *testing.T) {
	t.Parallel()

	fsys := project.NewMemory()
	fsys.Add("Views/Index.cshtml", "<p>hi</p>")

	item := fsys.GetItem("/Views/Index.cshtml")
	require.True(t, item.Exists())
	assert.Equal(t, project.FileKindTemplate, item.Kind)
	assert.Empty(t, item.PhysicalPath)

	r, err := item.Read()
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "<p>hi</p>", string(content))

	doc, err := item.Document(source.EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, "/Views/Index.cshtml", doc.RelativePath())
	assert.Equal(t, "<p>hi</p>", doc.Text())

	missing := fsys.GetItem("Views/Other.cshtml")
	assert.False(t, missing.Exists())
	_, err = missing.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, project.ErrNotFound))

	fsys.Remove("Views/Index.cshtml")
	assert.False(t, fsys.GetItem("Views/Index.cshtml").Exists())
}

func TestMemory_EnumerateItems(t *testing.T) {
	t.Parallel()

	fsys := project.NewMemory()
	fsys.Add("Views/Home/Index.cshtml", "")
	fsys.Add("Views/_ViewImports.cshtml", "")
	fsys.Add("Views/site.css", "")
	fsys.Add("Pages/Index.cshtml", "")

	items, err := fsys.EnumerateItems("/Views")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Views/Home/Index.cshtml", "/Views/_ViewImports.cshtml"}, paths(items))

	all, err := fsys.EnumerateItems("/")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportItems(t *testing.T) {
	t.Parallel()

	fsys := project.NewMemory()
	fsys.Add("_ViewImports.cshtml", "@using A")
	fsys.Add("Views/_ViewImports.cshtml", "@using B")
	fsys.Add("Views/Home/Index.cshtml", "")
	fsys.Add("Other/_ViewImports.cshtml", "@using C")

	got := paths(project.ImportItems(fsys, "Views/Home/Index.cshtml"))
	assert.Equal(t, []string{"/_ViewImports.cshtml", "/Views/_ViewImports.cshtml"}, got)

	got = paths(project.ImportItems(fsys, "Views/_ViewImports.cshtml"))
	assert.Equal(t, []string{"/_ViewImports.cshtml"}, got)
}

func TestImports(t *testing.T) {
	t.Parallel()

	fsys := project.NewMemory()
	fsys.Add("_ViewImports.cshtml", "@using A")
	fsys.Add("Views/_ViewImports.cshtml", "@using B")

	defaults := source.New("@using System", "defaults.cshtml")
	docs, err := project.Imports(fsys, "Views/Index.cshtml", source.EncodingAuto, defaults)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Same(t, defaults, docs[0])
	assert.Equal(t, "@using A", docs[1].Text())
	assert.Equal(t, "@using B", docs[2].Text())
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Views/Home/Index.cshtml", "<p>@Model</p>")
	writeFile(t, root, "Views/_ViewImports.cshtml", "@using Shop")
	writeFile(t, root, "Views/Home/notes.txt", "x")
	writeFile(t, root, ".git/HEAD.cshtml", "x")
	writeFile(t, root, "node_modules/pkg/a.cshtml", "x")
	writeFile(t, root, "obj/Debug/b.cshtml", "x")
	writeFile(t, root, "Templates/mail.gohtml", "x")

	fsys, err := project.NewDisk(root,
		project.WithExclude("obj/**"),
		project.WithExtensions(".cshtml", ".gohtml"),
	)
	require.NoError(t, err)

	items, err := fsys.EnumerateItems("/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/Templates/mail.gohtml",
		"/Views/Home/Index.cshtml",
		"/Views/_ViewImports.cshtml",
	}, paths(items))

	item := fsys.GetItem("Views/Home/Index.cshtml")
	require.True(t, item.Exists())
	assert.Equal(t, filepath.Join(fsys.Root(), "Views", "Home", "Index.cshtml"), item.PhysicalPath)
	assert.Equal(t, project.FileKindTemplate, fsys.GetItem("Templates/mail.gohtml").Kind)

	doc, err := item.Document(source.EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, "<p>@Model</p>", doc.Text())
	assert.Equal(t, item.PhysicalPath, doc.FilePath())
	assert.Equal(t, "/Views/Home/Index.cshtml", doc.RelativePath())

	assert.False(t, fsys.GetItem("Views").Exists(), "directories are not items")

	rel, err := fsys.ProjectPath(item.PhysicalPath)
	require.NoError(t, err)
	assert.Equal(t, "/Views/Home/Index.cshtml", rel)
	_, err = fsys.ProjectPath(filepath.Dir(root))
	require.Error(t, err)
}

func TestNewDisk_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "file.cshtml", "")

	_, err := project.NewDisk(filepath.Join(root, "missing"))
	require.Error(t, err)
	_, err = project.NewDisk(filepath.Join(root, "file.cshtml"))
	require.Error(t, err)
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"Views/Home/Index.cshtml", "*.cshtml", true},
		{"Views/Home/Index.cshtml", "Views/*.cshtml", false},
		{"Views/Home/Index.cshtml", "Views/**", true},
		{"Views/Home/_Layout.cshtml", "Views/**/_*.cshtml", true},
		{"Views/Home/Index.cshtml", "Views/**/_*.cshtml", false},
		{"src/obj/a.cshtml", "**/obj/**", true},
		{"obj", "obj/**", true},
		{"object/a.cshtml", "obj/**", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"|"+tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, project.MatchGlob(tt.path, tt.pattern))
		})
	}
}
