package pgrest

import (
	"slices"
	"strings"

	"github.com/mennanov/fmutils"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

// SelectMask appends the select parameter for the paths of an AIP-157 read mask.
// A nil or empty mask appends nothing.
//
// See [Expression.SelectPaths] for how nested paths are rendered.
func (e *Expression) SelectMask(mask *fieldmaskpb.FieldMask) *Expression {
	if len(mask.GetPaths()) == 0 {
		return e
	}
	return e.SelectPaths(mask.GetPaths()...)
}

// SelectPaths appends the select parameter for dotted field paths.
//
// Paths sharing a prefix are grouped with the embedded resource syntax, keeping
// the order in which each field is first mentioned:
//
//	pgrest.Endpoint("posts").SelectPaths("id", "author.name", "author.email")
//	// "posts?select=id,author(name,email)"
//
// A path that is a prefix of another selects the whole field, whichever comes
// first: ("author", "author.name") renders "author".
func (e *Expression) SelectPaths(paths ...string) *Expression {
	mask := fmutils.NestedMaskFromPaths(coveringPaths(paths))
	return e.AddParam("select", renderMask(mask, splitPaths(paths)))
}

// coveringPaths drops every path already covered by a shorter one.
func coveringPaths(paths []string) []string {
	mask := &fieldmaskpb.FieldMask{Paths: slices.Clone(paths)}
	mask.Normalize()
	return mask.GetPaths()
}

// splitPaths splits every dotted path into its segments.
func splitPaths(paths []string) [][]string {
	segments := make([][]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		segments = append(segments, strings.Split(p, "."))
	}
	return segments
}

// renderMask renders mask as a select list. segments holds the remaining path
// segments below mask and fixes the output order, since the mask itself is
// unordered.
func renderMask(mask fmutils.NestedMask, segments [][]string) string {
	var (
		order    []string
		children = map[string][][]string{}
	)
	for _, s := range segments {
		head := s[0]
		if _, ok := children[head]; !ok {
			order = append(order, head)
			children[head] = nil
		}
		if len(s) > 1 {
			children[head] = append(children[head], s[1:])
		}
	}

	parts := make([]string, 0, len(order))
	for _, field := range order {
		sub, ok := mask[field]
		if !ok {
			continue
		}
		if len(sub) == 0 {
			parts = append(parts, field)
			continue
		}
		parts = append(parts, field+"("+renderMask(sub, children[field])+")")
	}
	return strings.Join(parts, ",")
}
