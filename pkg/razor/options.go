package razor

import (
	"github.com/yaklabco/gorazor/pkg/binder"
	"github.com/yaklabco/gorazor/pkg/codegen"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/ir"
	"github.com/yaklabco/gorazor/pkg/parser"
)

// Options configures an Engine. The zero value is usable: it generates
// run-time code for the latest language version with four space indents.
type Options struct {
	// DesignTime generates code for editors rather than for execution.
	DesignTime       bool
	IndentSize       int
	IndentWithTabs   bool
	SuppressChecksum bool
	// NewLine separates generated lines; "\n" when empty.
	NewLine         string
	LanguageVersion config.LanguageVersion
	// RootNamespace is the namespace of generated classes.
	RootNamespace string
	// IDs names tag helper scopes; random when nil. The engine shares it
	// across compilations, so it must be safe for concurrent use or a
	// codegen.ForkingIDGenerator.
	IDs codegen.IDGenerator
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		IndentSize:      config.DefaultIndentSize,
		LanguageVersion: config.LanguageLatest,
		RootNamespace:   config.DefaultRootNamespace,
	}
}

// OptionsFromConfig derives engine options from a project configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.DesignTime = cfg.DesignTime
	opts.IndentWithTabs = cfg.IndentWithTabs
	opts.SuppressChecksum = cfg.SuppressChecksum
	opts.NewLine = cfg.NewLine.Sequence()
	if cfg.IndentSize > 0 {
		opts.IndentSize = cfg.IndentSize
	}
	if cfg.LanguageVersion != "" {
		opts.LanguageVersion = cfg.LanguageVersion
	}
	if cfg.RootNamespace != "" {
		opts.RootNamespace = cfg.RootNamespace
	}
	return opts
}

// Features returns the language features enabled by the language version.
func (o Options) Features() config.Features {
	version := o.LanguageVersion
	if version == "" {
		version = config.LanguageLatest
	}
	return version.Features()
}

func (o Options) indentSize() int {
	if o.IndentSize <= 0 {
		return config.DefaultIndentSize
	}
	return o.IndentSize
}

func (o Options) parserOptions(directives []*directive.Descriptor) parser.Options {
	features := o.Features()
	return parser.Options{
		Directives:                    directives,
		DesignTime:                    o.DesignTime,
		ConditionalDataDashAttributes: features.AllowConditionalDataDashAttributes,
		RazorInAllCodeBlocks:          features.AllowRazorInAllCodeBlocks,
	}
}

func (o Options) binderOptions() binder.Options {
	features := o.Features()
	return binder.Options{
		AllowMinimizedBooleanAttributes: features.AllowMinimizedBooleanTagHelperAttributes,
		AllowHTMLComments:               features.AllowHTMLCommentsInTagHelpers,
	}
}

func (o Options) irOptions() ir.Options {
	return ir.Options{
		DesignTime:       o.DesignTime,
		IndentSize:       o.indentSize(),
		IndentWithTabs:   o.IndentWithTabs,
		SuppressChecksum: o.SuppressChecksum,
		NewLine:          o.NewLine,
	}
}

func (o Options) codegenOptions() codegen.Options {
	return codegen.Options{
		DesignTime:     o.DesignTime,
		IndentSize:     o.indentSize(),
		IndentWithTabs: o.IndentWithTabs,
		NewLine:        o.NewLine,
		IDs:            o.IDs,
	}
}
