// Package mvc is the engine extension for MVC views and Razor Pages: the
// @model, @inject and @page directives, the view and page classifiers and
// the passes that interpret them.
package mvc

import (
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
)

// Directives added by the extension.
//
//nolint:gochecknoglobals // Read-only directive catalog.
var (
	Model = directive.MustNew("model", directive.KindSingleLine,
		directive.WithUsage(directive.UsageFileScopedSinglyOccurring),
		directive.WithTokens(directive.TokenDescriptor{Kind: directive.TokenType, Name: "TypeName", Description: "The model type."}),
		directive.WithDescription("Specify the view or page model for the page."))

	Inject = directive.MustNew("inject", directive.KindSingleLine,
		directive.WithUsage(directive.UsageFileScopedMultipleOccurring),
		directive.WithTokens(
			directive.TokenDescriptor{Kind: directive.TokenType, Name: "TypeName", Description: "The type of the service to inject."},
			directive.TokenDescriptor{Kind: directive.TokenMember, Name: "PropertyName", Description: "The name of the property."},
		),
		directive.WithDescription("Inject a service from the application's service container into a property."))

	Page = directive.MustNew("page", directive.KindSingleLine,
		directive.WithUsage(directive.UsageFileScopedSinglyOccurring),
		directive.WithTokens(directive.TokenDescriptor{
			Kind: directive.TokenString, Name: "RouteTemplate", Optional: true,
			Description: "An optional route template for the page.",
		}),
		directive.WithDescription("Mark the page as a Razor Page."))
)

// Directives returns the directives of the extension.
func Directives() []*directive.Descriptor {
	return []*directive.Descriptor{Model, Inject, Page}
}

// DefaultImportsPath is the file path of the document returned by
// DefaultImports.
const DefaultImportsPath = "_DefaultImports.cshtml"

const defaultImports = `@using System
@using System.Collections.Generic
@using System.Linq
@using System.Threading.Tasks
@using Microsoft.AspNetCore.Mvc
@using Microsoft.AspNetCore.Mvc.Rendering
@using Microsoft.AspNetCore.Mvc.ViewFeatures
@inject global::Microsoft.AspNetCore.Mvc.Rendering.IHtmlHelper<TModel> Html
@inject global::Microsoft.AspNetCore.Mvc.ViewFeatures.IJsonHelper Json
@inject global::Microsoft.AspNetCore.Mvc.IViewComponentHelper Component
@inject global::Microsoft.AspNetCore.Mvc.IUrlHelper Url
@inject global::Microsoft.AspNetCore.Mvc.ViewFeatures.IModelExpressionProvider ModelExpressionProvider
`

// DefaultImports returns the imports every MVC document sees ahead of its
// _ViewImports files.
func DefaultImports() *source.Document {
	return source.New(defaultImports, DefaultImportsPath)
}
