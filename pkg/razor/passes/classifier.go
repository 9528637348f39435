package passes

import (
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/razor"
)

// DefaultDocumentKind is the kind assigned by the default classifier.
const DefaultDocumentKind = "default"

// Default names of the generated type.
const (
	DefaultClassName  = "Template"
	DefaultMethodName = "ExecuteAsync"
	TaskType          = "global::System.Threading.Tasks.Task"
)

// Classification describes the type a document is generated as.
type Classification struct {
	Kind            string
	Namespace       string
	ClassName       string
	BaseType        string
	Interfaces      []string
	ClassModifiers  []string
	MethodName      string
	MethodType      string
	MethodModifiers []string
}

// Classifier is a document classifier pass. The first classifier to match
// a document gives it its kind; later classifiers leave it alone.
type Classifier struct {
	PassName string
	// Match reports whether the classifier applies. Nil matches every document.
	Match    func(doc *razor.CodeDocument, irDoc *ir.Document) bool
	Classify func(doc *razor.CodeDocument, irDoc *ir.Document) Classification
}

func (c *Classifier) Name() string { return c.PassName }

func (c *Classifier) Execute(doc *razor.CodeDocument, irDoc *ir.Document) {
	if irDoc.Kind() != "" {
		return
	}
	if c.Match != nil && !c.Match(doc, irDoc) {
		return
	}
	cl := c.Classify(doc, irDoc)
	if !irDoc.SetKind(cl.Kind) {
		return
	}
	Restructure(irDoc, cl)
}

// DefaultClassifier generates every document as a class named Template in
// the configured root namespace.
func DefaultClassifier() *Classifier {
	return &Classifier{
		PassName: "default-classifier",
		Classify: func(doc *razor.CodeDocument, _ *ir.Document) Classification {
			ns := doc.Options.RootNamespace
			if ns == "" {
				ns = config.DefaultRootNamespace
			}
			return Classification{
				Kind:            DefaultDocumentKind,
				Namespace:       ns,
				ClassName:       DefaultClassName,
				ClassModifiers:  []string{"public"},
				MethodName:      DefaultMethodName,
				MethodType:      TaskType,
				MethodModifiers: []string{"public", "async", "override"},
			}
		},
	}
}

// Restructure moves the flat children of the document root into a
// namespace, class and method built from cl. Checksums stay first under the
// root, usings go to the namespace, members to the class and everything
// else to the method body.
func Restructure(irDoc *ir.Document, cl Classification) {
	root := irDoc.Root()
	ns := irDoc.New(ir.Node{Kind: ir.KindNamespace, Content: cl.Namespace})
	class := irDoc.New(ir.Node{
		Kind:       ir.KindClass,
		Name:       cl.ClassName,
		Type:       cl.BaseType,
		Interfaces: cl.Interfaces,
		Modifiers:  cl.ClassModifiers,
	})
	method := irDoc.New(ir.Node{
		Kind:      ir.KindMethod,
		Name:      cl.MethodName,
		Type:      cl.MethodType,
		Modifiers: cl.MethodModifiers,
	})

	checksums := 0
	for _, c := range irDoc.Children(root) {
		switch irDoc.Node(c).Kind {
		case ir.KindChecksum:
			irDoc.Insert(root, checksums, c)
			checksums++
		case ir.KindUsing:
			irDoc.Add(ns, c)
		case ir.KindField, ir.KindProperty:
			irDoc.Add(class, c)
		default:
			irDoc.Add(method, c)
		}
	}
	irDoc.Add(class, method)
	irDoc.Add(ns, class)
	irDoc.Add(root, ns)
}

// Namespace returns the namespace node of a classified document, or ir.None.
func Namespace(irDoc *ir.Document) ir.NodeID { return irDoc.FindFirst(irDoc.Root(), ir.KindNamespace) }

// Class returns the class node of a classified document, or ir.None.
func Class(irDoc *ir.Document) ir.NodeID { return irDoc.FindFirst(irDoc.Root(), ir.KindClass) }

// Method returns the method node of a classified document, or ir.None.
func Method(irDoc *ir.Document) ir.NodeID { return irDoc.FindFirst(irDoc.Root(), ir.KindMethod) }
