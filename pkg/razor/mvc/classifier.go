package mvc

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
)

// Document kinds assigned by the classifiers.
const (
	ViewDocumentKind = "mvc.1.0.view"
	PageDocumentKind = "mvc.1.0.razor-page"
)

const (
	// DefaultNamespace is the namespace of generated views and pages.
	DefaultNamespace = "AspNetCore"
	// DefaultModelType is the model of documents without @model.
	DefaultModelType = "dynamic"

	ViewBaseType = "global::Microsoft.AspNetCore.Mvc.Razor.RazorPage<TModel>"
	PageBaseType = "global::Microsoft.AspNetCore.Mvc.RazorPages.Page"
)

// ViewClassifier classifies every document as an MVC view.
func ViewClassifier() *passes.Classifier {
	return &passes.Classifier{
		PassName: "mvc-view-classifier",
		Classify: func(doc *razor.CodeDocument, _ *ir.Document) passes.Classification {
			return classification(doc, ViewDocumentKind, ViewBaseType)
		},
	}
}

// PageClassifier classifies documents with their own @page directive as
// Razor Pages.
func PageClassifier() *passes.Classifier {
	return &passes.Classifier{
		PassName: "mvc-page-classifier",
		Match: func(doc *razor.CodeDocument, irDoc *ir.Document) bool {
			return len(pageDirectives(doc, irDoc)) > 0
		},
		Classify: func(doc *razor.CodeDocument, _ *ir.Document) passes.Classification {
			return classification(doc, PageDocumentKind, PageBaseType)
		},
	}
}

func classification(doc *razor.CodeDocument, kind, base string) passes.Classification {
	return passes.Classification{
		Kind:            kind,
		Namespace:       DefaultNamespace,
		ClassName:       ClassName(documentPath(doc)),
		BaseType:        base,
		ClassModifiers:  []string{"public"},
		MethodName:      passes.DefaultMethodName,
		MethodType:      passes.TaskType,
		MethodModifiers: []string{"public", "async", "override"},
	}
}

// documentPath is the project-relative path of the document, which names
// the generated class.
func documentPath(doc *razor.CodeDocument) string {
	if doc == nil || doc.Source == nil {
		return ""
	}
	return doc.Source.RelativePath()
}

// isMVC reports whether irDoc was classified by this extension.
func isMVC(irDoc *ir.Document) bool {
	k := irDoc.Kind()
	return k == ViewDocumentKind || k == PageDocumentKind
}

// pageDirectives returns the @page directives written in the document
// itself. Imported ones do not make a page.
func pageDirectives(doc *razor.CodeDocument, irDoc *ir.Document) []ir.NodeID {
	var own string
	if doc != nil && doc.Source != nil {
		own = doc.Source.FilePath()
	}
	var out []ir.NodeID
	for _, id := range passes.FindDirectives(irDoc, Page.Keyword()) {
		if src := irDoc.Node(id).Source; src != nil && src.FilePath == own {
			out = append(out, id)
		}
	}
	return out
}

// RelativePath returns the rooted, slash separated form of a document path:
// "Views/Home/Index.cshtml" becomes "/Views/Home/Index.cshtml".
func RelativePath(p string) string {
	p = path.Clean("/" + filepath.ToSlash(p))
	if p == "/" {
		return ""
	}
	return p
}

// ClassName derives a class name from a document path: the extension is
// dropped and every character that cannot appear in an identifier becomes
// an underscore. "Views/Home/Index.cshtml" becomes "Views_Home_Index".
func ClassName(p string) string {
	p = strings.TrimPrefix(RelativePath(p), "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	if p == "" {
		return passes.DefaultClassName
	}

	var sb strings.Builder
	for i, r := range p {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
