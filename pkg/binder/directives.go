package binder

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/directive"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/syntax"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

const wildcard = "*"

const invalidPrefixChars = "@!</?[>]=\"'*"

// Resolve applies the tag helper directives of trees, in order, to the
// available descriptors. Imports come first and the document last, so a
// later @tagHelperPrefix wins and a later @removeTagHelper can undo an
// imported @addTagHelper.
func Resolve(trees []*syntax.Tree, available []*taghelper.Descriptor) (*Context, []diag.Diagnostic) {
	var (
		bag      diag.Bag
		prefix   string
		selected []*taghelper.Descriptor
	)
	available = taghelper.Dedupe(available)

	for _, tree := range trees {
		if tree == nil || tree.Root == nil {
			continue
		}
		for _, s := range syntax.Leaves(tree.Root) {
			info := s.TagHelperDirective
			if info == nil {
				continue
			}
			valueSpan := source.NewSpan(info.ValueLocation, utf8.RuneCountInString(info.Value))

			switch info.Kind {
			case syntax.TagHelperPrefix:
				if r, ok := invalidPrefixChar(info.Value); ok {
					bag.Report(diag.InvalidTagHelperPrefixValue, valueSpan, directive.TagHelperPrefixKeyword, string(r), info.Value)
					continue
				}
				prefix = info.Value

			case syntax.AddTagHelper, syntax.RemoveTagHelper:
				pattern, assembly, ok := parseLookupText(info.Value)
				if !ok {
					bag.Report(diag.InvalidTagHelperLookupText, valueSpan, info.Value)
					continue
				}
				matches := func(d *taghelper.Descriptor) bool {
					return d.AssemblyName() == assembly && matchesTypePattern(pattern, d.TypeName())
				}
				if info.Kind == syntax.RemoveTagHelper {
					selected = slices.DeleteFunc(selected, matches)
					continue
				}
				for _, d := range available {
					if matches(d) && !slices.Contains(selected, d) {
						selected = append(selected, d)
					}
				}
			}
		}
	}

	return NewContext(prefix, selected), bag.Items()
}

// parseLookupText splits "TypePattern, AssemblyName".
func parseLookupText(text string) (string, string, bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return "", "", false
	}
	pattern, assembly := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if pattern == "" || assembly == "" {
		return "", "", false
	}
	return pattern, assembly, true
}

func matchesTypePattern(pattern, typeName string) bool {
	switch {
	case pattern == wildcard:
		return true
	case strings.HasSuffix(pattern, wildcard):
		return strings.HasPrefix(typeName, strings.TrimSuffix(pattern, wildcard))
	default:
		return typeName == pattern
	}
}

func invalidPrefixChar(prefix string) (rune, bool) {
	for _, r := range prefix {
		if unicode.IsSpace(r) || strings.ContainsRune(invalidPrefixChars, r) {
			return r, true
		}
	}
	return 0, false
}
