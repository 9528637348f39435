// Package passes holds the built-in syntax tree and IR passes.
package passes

import "github.com/yaklabco/gorazor/pkg/razor"

// Syntax tree pass orders.
const (
	OrderWhitespace          = 100
	OrderHTMLAttributes      = 200
	OrderDirectiveValidation = 300
)

// IR pass orders within their stage. The default classifier runs last in
// its stage so extension classifiers can claim a document first.
const (
	OrderDefaultClassifier      = 1000
	OrderDesignTimeDirectives   = 10
	OrderDirectives             = 100
	OrderTagHelperFields        = 100
	OrderPreallocatedAttributes = 200
)

// Register adds the built-in passes to r.
func Register(r *razor.Registry) {
	r.AddSyntaxTreePass(OrderWhitespace, WhitespacePass{})
	r.AddSyntaxTreePass(OrderHTMLAttributes, HTMLAttributePass{})
	r.AddSyntaxTreePass(OrderDirectiveValidation, DirectiveValidationPass{})

	r.AddIRPass(razor.StageDocumentClassifier, OrderDefaultClassifier, DefaultClassifier())

	r.AddIRPass(razor.StageDirectiveClassifier, OrderDesignTimeDirectives, DesignTimeDirectivePass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderDirectives, FunctionsPass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderDirectives, InheritsPass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderDirectives, NamespacePass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderDirectives, SectionPass{})

	r.AddIRPass(razor.StageOptimization, OrderTagHelperFields, TagHelperFieldsPass{})
	r.AddIRPass(razor.StageOptimization, OrderPreallocatedAttributes, PreallocatedAttributePass{})
}
