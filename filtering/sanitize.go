package filtering

import (
	"regexp"
	"strings"
)

// keywordSpellings maps SQL-style keywords to their CEL spelling. " = " keeps
// its surrounding spaces so that >=, <= and != are left alone.
var keywordSpellings = []struct {
	pattern string
	cel     string
}{
	{`\bAND\b`, "&&"},
	{`\bOR\b`, "||"},
	{`\s+=\s+`, " == "},
	{`\bNULL\b`, "null"},
	{`\bIN\b`, "in"},
}

type keyword struct {
	pattern *regexp.Regexp
	cel     string
}

// segment is a run of filter text. Literal segments are quoted strings and are
// never rewritten.
type segment struct {
	text    string
	literal bool
}

// sanitize rewrites the SQL-style keywords of filter into CEL syntax, leaving
// quoted strings untouched.
//
//   - AND -> &&, OR -> ||
//   - " = " -> " == "
//   - NULL -> null, IN -> in
//   - NOT x -> !(x), where x runs to the end of the restriction
func (f *Parser) sanitize(filter string) string {
	segments := splitLiterals(filter)
	for i := range segments {
		if segments[i].literal {
			continue
		}
		for _, k := range f.keywords {
			segments[i].text = k.pattern.ReplaceAllString(segments[i].text, k.cel)
		}
	}
	return f.negate(segments)
}

// splitLiterals cuts filter into quoted string literals and the text between
// them.
func splitLiterals(filter string) []segment {
	var segments []segment
	start := 0
	for i := 0; i < len(filter); {
		if filter[i] != '\'' && filter[i] != '"' {
			i++
			continue
		}
		if i > start {
			segments = append(segments, segment{text: filter[start:i]})
		}
		end := literalEnd(filter, i)
		segments = append(segments, segment{text: filter[i:end], literal: true})
		i, start = end, end
	}
	if start < len(filter) {
		segments = append(segments, segment{text: filter[start:]})
	}
	return segments
}

// literalEnd returns the index just past the string literal opening at start.
// Triple quotes and backslash escapes follow CEL. An unterminated literal runs
// to the end of filter and is left for the CEL parser to reject.
func literalEnd(filter string, start int) int {
	quote := filter[start : start+1]
	if triple := strings.Repeat(quote, 3); strings.HasPrefix(filter[start:], triple) {
		quote = triple
	}
	for i := start + len(quote); i < len(filter); i++ {
		if filter[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(filter[i:], quote) {
			return i + len(quote)
		}
	}
	return len(filter)
}

// negate replaces every NOT keyword with "!(" and closes it where the
// restriction that follows ends: before the next && or || or comma at the same
// nesting depth, before the bracket closing that depth, or at the end of the
// filter. NOT therefore binds to a whole comparison, so "NOT a = 1" reads as
// !(a == 1) rather than (!a) == 1.
func (f *Parser) negate(segments []segment) string {
	var (
		sb    strings.Builder
		depth int
		open  []int // depth of every unclosed "!("
		prev  byte
	)
	closeAt := func(d int) {
		for len(open) > 0 && open[len(open)-1] >= d {
			sb.WriteByte(')')
			open = open[:len(open)-1]
		}
	}

	for _, s := range segments {
		if s.literal {
			sb.WriteString(s.text)
			prev = s.text[len(s.text)-1]
			continue
		}

		text := s.text
		for i := 0; i < len(text); {
			rest := text[i:]
			switch {
			case strings.HasPrefix(rest, "&&"), strings.HasPrefix(rest, "||"):
				closeAt(depth)
				sb.WriteString(rest[:2])
				prev = rest[1]
				i += 2
				continue
			case rest[0] == '(' || rest[0] == '[' || rest[0] == '{':
				depth++
			case rest[0] == ')' || rest[0] == ']' || rest[0] == '}':
				closeAt(depth)
				depth--
			case rest[0] == ',':
				closeAt(depth)
			case !isIdentByte(prev):
				if loc := f.not.FindStringIndex(rest); loc != nil {
					sb.WriteString("!(")
					open = append(open, depth)
					prev = '('
					i += loc[1]
					continue
				}
			}
			sb.WriteByte(rest[0])
			prev = rest[0]
			i++
		}
	}

	for range open {
		sb.WriteByte(')')
	}
	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
