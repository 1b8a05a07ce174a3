package filtering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.alis.build/pgrest"
)

// ParserSuite is the main test suite for the filtering parser
type ParserSuite struct {
	suite.Suite
	parser *Parser
}

// SetupSuite runs once before all tests in the suite
func (s *ParserSuite) SetupSuite() {
	parser, err := NewParser()
	require.NoError(s.T(), err, "Failed to create parser")
	s.parser = parser
}

// assertQuery is a helper to validate the query string produced for a filter
func (s *ParserSuite) assertQuery(filter, expected string) {
	q, err := s.parser.Apply(pgrest.Endpoint("t"), filter)
	require.NoError(s.T(), err, "Failed to parse filter: %s", filter)
	assert.Equal(s.T(), expected, q.QueryString(), "Query mismatch for filter: %s", filter)
}

// assertError is a helper to validate that parsing returns an error
func (s *ParserSuite) assertError(filter string) {
	_, err := s.parser.Apply(pgrest.Endpoint("t"), filter)
	assert.Error(s.T(), err, "Expected error for filter: %s", filter)
}

// TestParserSuite runs the main parser test suite
func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserSuite))
}

// =============================================================================
// Comparison Operators Tests
// =============================================================================

func (s *ParserSuite) TestEquality() {
	s.assertQuery("name == 'Alice'", "t?name=eq.Alice")
}

func (s *ParserSuite) TestEqualityWithInt() {
	s.assertQuery("age == 25", "t?age=eq.25")
}

func (s *ParserSuite) TestEqualityWithDouble() {
	s.assertQuery("price == 9.99", "t?price=eq.9.99")
}

func (s *ParserSuite) TestEqualityWithBool() {
	s.assertQuery("active == true", "t?active=is.true")
}

func (s *ParserSuite) TestSQLStyleEquality() {
	s.assertQuery("name = 'Alice'", "t?name=eq.Alice")
}

func (s *ParserSuite) TestInequality() {
	s.assertQuery("name != 'Alice'", "t?name=not.eq.Alice")
}

func (s *ParserSuite) TestGreaterThan() {
	s.assertQuery("age > 18", "t?age=gt.18")
}

func (s *ParserSuite) TestGreaterThanOrEqual() {
	s.assertQuery("age >= 18", "t?age=gte.18")
}

func (s *ParserSuite) TestLessThan() {
	s.assertQuery("age < 65", "t?age=lt.65")
}

func (s *ParserSuite) TestLessThanOrEqual() {
	s.assertQuery("age <= 65", "t?age=lte.65")
}

func (s *ParserSuite) TestLiteralOnLeftIsMirrored() {
	s.assertQuery("18 < age", "t?age=gt.18")
	s.assertQuery("65 >= age", "t?age=lte.65")
	s.assertQuery("'Alice' == name", "t?name=eq.Alice")
}

func (s *ParserSuite) TestNull() {
	s.assertQuery("deleted_at == null", "t?deleted_at=is.null")
	s.assertQuery("deleted_at = NULL", "t?deleted_at=is.null")
	s.assertQuery("deleted_at != null", "t?deleted_at=not.is.null")
}

func (s *ParserSuite) TestBareField() {
	s.assertQuery("active", "t?active=is.true")
	s.assertQuery("!active", "t?active=not.is.true")
}

func (s *ParserSuite) TestNestedField() {
	s.assertQuery("author.name == 'Bob'", "t?author.name=eq.Bob")
}

// =============================================================================
// IN Operator Tests
// =============================================================================

func (s *ParserSuite) TestIn() {
	s.assertQuery("id in [1, 2, 3]", "t?id=in.(1,2,3)")
}

func (s *ParserSuite) TestSQLStyleIn() {
	s.assertQuery("status IN ['a', 'b']", "t?status=in.(a,b)")
}

func (s *ParserSuite) TestNotIn() {
	s.assertQuery("!(id in [1, 2])", "t?id=not.in.(1,2)")
}

// =============================================================================
// Logical Operators Tests
// =============================================================================

func (s *ParserSuite) TestAnd() {
	s.assertQuery("name = 'Alice' AND age > 18", "t?name=eq.Alice&age=gt.18")
}

func (s *ParserSuite) TestOr() {
	s.assertQuery("a = 1 OR b = 2 OR c = 3", "t?or=(a.eq.1,b.eq.2,c.eq.3)")
}

func (s *ParserSuite) TestAndWithNestedOr() {
	s.assertQuery("age > 18 AND (status = 'a' OR status = 'b')", "t?age=gt.18&or=(status.eq.a,status.eq.b)")
}

func (s *ParserSuite) TestOrWithNestedAnd() {
	s.assertQuery("a = 1 OR (b = 2 AND c = 3)", "t?or=(a.eq.1,and(b.eq.2,c.eq.3))")
}

func (s *ParserSuite) TestDeepNesting() {
	s.assertQuery("a = 1 AND (b = 2 OR (c = 3 AND d = 4))", "t?a=eq.1&or=(b.eq.2,and(c.eq.3,d.eq.4))")
}

func (s *ParserSuite) TestTwoDisjunctions() {
	s.assertQuery("(a = 1 OR b = 2) AND (c = 3 OR d = 4)", "t?or=(a.eq.1,b.eq.2)&or=(c.eq.3,d.eq.4)")
}

func (s *ParserSuite) TestSymbolicOperators() {
	s.assertQuery("a == 1 && (b == 2 || c == 3)", "t?a=eq.1&or=(b.eq.2,c.eq.3)")
}

// =============================================================================
// Negation Tests
// =============================================================================

func (s *ParserSuite) TestNotAnd() {
	s.assertQuery("NOT (a = 1 AND b = 2)", "t?not.and=(a.eq.1,b.eq.2)")
}

func (s *ParserSuite) TestNotOr() {
	s.assertQuery("NOT (a = 1 OR b = 2)", "t?not.or=(a.eq.1,b.eq.2)")
}

func (s *ParserSuite) TestNotComparison() {
	s.assertQuery("!(age > 18)", "t?age=not.gt.18")
}

func (s *ParserSuite) TestDoubleNegation() {
	s.assertQuery("!!(age > 18)", "t?age=gt.18")
	s.assertQuery("!(a != 1)", "t?a=eq.1")
}

func (s *ParserSuite) TestNotWithoutParentheses() {
	s.assertQuery("NOT a = 1", "t?a=not.eq.1")
	s.assertQuery("NOT status = 'a' AND b > 2", "t?status=not.eq.a&b=gt.2")
	s.assertQuery("a = 1 OR NOT b = 2", "t?or=(a.eq.1,b.not.eq.2)")
	s.assertQuery("NOT a IN [1, 2]", "t?a=not.in.(1,2)")
	s.assertQuery("NOT like(name, 'A*')", "t?name=not.like.A*")
	s.assertQuery("NOT NOT a = 1", "t?a=eq.1")
	s.assertQuery("(NOT a = 1) AND b = 2", "t?a=not.eq.1&b=eq.2")
}

func (s *ParserSuite) TestNegatedGroupInsideOr() {
	s.assertQuery("a = 1 OR NOT (b = 2 AND c = 3)", "t?or=(a.eq.1,not.and(b.eq.2,c.eq.3))")
}

// =============================================================================
// Quoted Value Tests
// =============================================================================

func (s *ParserSuite) TestKeywordsInsideQuotesAreKept() {
	s.assertQuery("name = 'SALT AND PEPPER'", "t?name=eq.SALT AND PEPPER")
	s.assertQuery("title = 'a = b'", "t?title=eq.a = b")
	s.assertQuery(`note = "NOT IN STOCK"`, "t?note=eq.NOT IN STOCK")
	s.assertQuery("status IN ['OR', 'NULL']", "t?status=in.(OR,NULL)")
	s.assertQuery(`name = 'it\'s AND more' AND a = 1`, "t?name=eq.it's AND more&a=eq.1")
}

// =============================================================================
// String Function Tests
// =============================================================================

func (s *ParserSuite) TestPatternFunctions() {
	s.assertQuery("like(name, 'A*')", "t?name=like.A*")
	s.assertQuery("ilike(name, 'a*')", "t?name=ilike.a*")
	s.assertQuery("match(name, '^A')", "t?name=match.^A")
	s.assertQuery("imatch(name, '^a')", "t?name=imatch.^a")
	s.assertQuery("prefix(name, 'Al')", "t?name=like.Al*")
	s.assertQuery("suffix(name, 'ce')", "t?name=like.*ce")
}

func (s *ParserSuite) TestMemberFunctions() {
	s.assertQuery("name.startsWith('Al')", "t?name=like.Al*")
	s.assertQuery("name.endsWith('ce')", "t?name=like.*ce")
	s.assertQuery("name.contains('li')", "t?name=like.*li*")
	s.assertQuery("name.matches('^A')", "t?name=match.^A")
}

func (s *ParserSuite) TestNegatedPattern() {
	s.assertQuery("!ilike(name, 'a*')", "t?name=not.ilike.a*")
}

// =============================================================================
// Value Function Tests
// =============================================================================

func (s *ParserSuite) TestTimestamp() {
	s.assertQuery("create_time > timestamp('2021-01-01T00:00:00Z')", "t?create_time=gt.2021-01-01T00:00:00Z")
}

func (s *ParserSuite) TestDuration() {
	s.assertQuery("expire_after > duration('1h')", "t?expire_after=gt.PT3600S")
	s.assertQuery("timeout <= duration('1.5s')", "t?timeout=lte.PT1.5S")
}

func (s *ParserSuite) TestDate() {
	s.assertQuery("effective_date == date('2021-01-01')", "t?effective_date=eq.2021-01-01")
}

// =============================================================================
// Error Tests
// =============================================================================

func (s *ParserSuite) TestErrors() {
	s.assertError("name ==")
	s.assertError("1 == 2")
	s.assertError("size(name) > 3")
	s.assertError("unknown(name)")
	s.assertError("expire_after > duration('forever')")
	s.assertError("effective_date == date('2021-13-45')")
	s.assertError("create_time > timestamp('yesterday')")
	s.assertError("tags.exists(t, t == 'x')")
	s.assertError("like(name, 1)")
	s.assertError("id in ids")
	s.assertError("has(author.name)")
}

func (s *ParserSuite) TestErrorType() {
	_, err := s.parser.Apply(pgrest.Endpoint("t"), "unknown(name)")
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidFilter{}))
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *ParserSuite) TestErrorLeavesExpressionUnchanged() {
	e := pgrest.Endpoint("t").Limit(1)
	_, err := s.parser.Apply(e, "a == 1 AND unknown(b)")
	s.Require().Error(err)
	s.Equal("t?limit=1", e.QueryString())
}

// =============================================================================
// Apply / Parse Tests
// =============================================================================

func (s *ParserSuite) TestEmptyFilter() {
	e := pgrest.Endpoint("t").Limit(1)
	q, err := s.parser.Apply(e, "")
	s.Require().NoError(err)
	s.Same(e, q)
	s.Equal("t?limit=1", q.QueryString())
}

func (s *ParserSuite) TestApplyAppends() {
	e := pgrest.Endpoint("t").Select("id")
	q, err := s.parser.Apply(e, "a == 1")
	s.Require().NoError(err)
	s.Same(e, q)
	s.Equal("t?select=id&a=eq.1", e.Limit(5).QueryString())
}

func (s *ParserSuite) TestParse() {
	q, err := s.parser.Parse("a == 1 && b > 2")
	s.Require().NoError(err)
	s.Equal("", q.Name())
	s.Equal("(a.eq.1,b.gt.2)", q.Fragment())
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestParser_sanitize(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{name: "Keywords", filter: "a = 1 AND b = NULL OR c IN [1]", want: "a == 1 && b == null || c in [1]"},
		{name: "Not", filter: "NOT a = 1", want: "!(a == 1)"},
		{name: "NotGroup", filter: "NOT (a = 1 AND b = 2)", want: "!((a == 1 && b == 2))"},
		{name: "NotEndsAtAnd", filter: "NOT a = 1 AND b = 2", want: "!(a == 1) && b == 2"},
		{name: "NotEndsAtComma", filter: "f(NOT a, b)", want: "f(!(a), b)"},
		{name: "NotPrefixOfIdentifier", filter: "NOTE = 1", want: "NOTE == 1"},
		{name: "NotAfterIdentifier", filter: "a.NOT b", want: "a.NOT b"},
		{name: "SingleQuoted", filter: "name = 'SALT AND PEPPER'", want: "name == 'SALT AND PEPPER'"},
		{name: "DoubleQuoted", filter: `note = "NOT IN STOCK" OR x`, want: `note == "NOT IN STOCK" || x`},
		{name: "EscapedQuote", filter: `a = 'x\' OR y' OR b`, want: `a == 'x\' OR y' || b`},
		{name: "TripleQuoted", filter: `a = '''it's AND''' OR b`, want: `a == '''it's AND''' || b`},
		{name: "Unterminated", filter: "a = 'OR", want: "a == 'OR"},
	}

	parser, err := NewParser()
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.sanitize(tt.filter))
		})
	}
}

// =============================================================================
// Option Tests
// =============================================================================

func TestParserOptions(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		filter string
		want   string
	}{
		{
			name:   "SnakeCase",
			opts:   []Option{WithSnakeCaseColumns()},
			filter: "createTime > 5",
			want:   "t?create_time=gt.5",
		},
		{
			name:   "SnakeCaseNested",
			opts:   []Option{WithSnakeCaseColumns()},
			filter: "author.displayName == 'x'",
			want:   "t?author.display_name=eq.x",
		},
		{
			name:   "ColumnMapping",
			opts:   []Option{WithColumnMapping(map[string]string{"id": "uid"})},
			filter: "id == 1",
			want:   "t?uid=eq.1",
		},
		{
			name: "ColumnMappingWinsOverSnakeCase",
			opts: []Option{
				WithSnakeCaseColumns(),
				WithColumnMapping(map[string]string{"createTime": "created_at"}),
			},
			filter: "createTime > 5",
			want:   "t?created_at=gt.5",
		},
		{
			name:   "Reserved",
			opts:   []Option{WithReserved("order")},
			filter: "order == 1",
			want:   `t?"order"=eq.1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := NewParser(tt.opts...)
			require.NoError(t, err)

			q, err := parser.Apply(pgrest.Endpoint("t"), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.QueryString())
		})
	}
}
