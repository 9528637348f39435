package mvc

import (
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
)

// Pass orders. The classifiers run ahead of the default classifier. The
// inject pass reads @model before the model pass removes it, and the page
// pass runs after @namespace is applied.
const (
	OrderPageDirective  = 400
	OrderPageClassifier = 800
	OrderViewClassifier = 900
	OrderInject         = passes.OrderDirectives + 10
	OrderModel          = passes.OrderDirectives + 50
	OrderPage           = passes.OrderDirectives + 100
)

// Register adds the MVC directives and passes to r. It is meant to be used
// together with passes.Register.
func Register(r *razor.Registry) {
	r.AddDirectives(Directives()...)

	r.AddSyntaxTreePass(OrderPageDirective, PageDirectivePass{})

	r.AddIRPass(razor.StageDocumentClassifier, OrderPageClassifier, PageClassifier())
	r.AddIRPass(razor.StageDocumentClassifier, OrderViewClassifier, ViewClassifier())

	r.AddIRPass(razor.StageDirectiveClassifier, OrderInject, InjectPass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderModel, ModelPass{})
	r.AddIRPass(razor.StageDirectiveClassifier, OrderPage, PagePass{})
}
