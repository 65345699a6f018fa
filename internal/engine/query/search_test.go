package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
)

func searchModel(t *testing.T) *domain.Model {
	t.Helper()
	return buildModel(t,
		[]node{
			{path: "/src", typ: "dir"},
			{path: "/src/UserService", typ: "class", attrs: domain.Attributes{
				"language": domain.StringValue("java"),
				"loc":      domain.IntValue(120),
				"public":   domain.BoolValue(true),
			}},
			{path: "/src/UserService/save", typ: "method", attrs: domain.Attributes{
				"language": domain.StringValue("java"),
				"loc":      domain.IntValue(12),
			}},
			{path: "/src/OrderService", typ: "class", attrs: domain.Attributes{
				"language": domain.StringValue("kotlin"),
				"loc":      domain.FloatValue(120),
			}},
			{path: "/src/x[y", typ: "file", attrs: domain.Attributes{
				"pattern": domain.StringValue("[bad"),
			}},
			{path: "/test", typ: "dir"},
			{path: "/test/UserServiceTest", typ: "class"},
		},
		nil,
	)
}

func TestSearchByName(t *testing.T) {
	m := searchModel(t)

	tests := []struct {
		name  string
		query domain.NameQuery
		want  []string
	}{
		{
			name:  "regex search is unanchored",
			query: domain.NameQuery{Pattern: "Service"},
			want:  []string{"/src/UserService", "/src/OrderService", "/test/UserServiceTest"},
		},
		{
			name:  "anchored regex",
			query: domain.NameQuery{Pattern: "^User.*e$"},
			want:  []string{"/src/UserService"},
		},
		{
			name:  "type filter",
			query: domain.NameQuery{Pattern: "Service", Type: "class", Scope: "/src"},
			want:  []string{"/src/UserService", "/src/OrderService"},
		},
		{
			name:  "glob fallback",
			query: domain.NameQuery{Pattern: "*Test"},
			want:  []string{"/test/UserServiceTest"},
		},
		{
			name:  "literal fallback",
			query: domain.NameQuery{Pattern: "x[y"},
			want:  []string{"/src/x[y"},
		},
		{
			name:  "scope without leading separator",
			query: domain.NameQuery{Pattern: "save", Scope: "src/UserService"},
			want:  []string{"/src/UserService/save"},
		},
		{
			name:  "unknown scope",
			query: domain.NameQuery{Pattern: ".", Scope: "/nope"},
			want:  []string{},
		},
		{
			name:  "no match",
			query: domain.NameQuery{Pattern: "^zzz$"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.SearchByName(m, tt.query)
			assert.ElementsMatch(t, tt.want, paths(got))
		})
	}
}

func TestSearchByName_IncludesScopeElement(t *testing.T) {
	m := searchModel(t)

	for el := range m.Elements() {
		if el.Name == "" {
			continue
		}
		got := query.SearchByName(m, domain.NameQuery{Pattern: el.Name, Scope: el.Path})
		assert.Contains(t, paths(got), el.Path)
	}
}

func TestElementsByType(t *testing.T) {
	m := searchModel(t)

	got := query.ElementsByType(m, domain.TypeQuery{Type: "class"})
	assert.ElementsMatch(t,
		[]string{"/src/UserService", "/src/OrderService", "/test/UserServiceTest"},
		paths(got))

	got = query.ElementsByType(m, domain.TypeQuery{Type: "class", Scope: "/test"})
	assert.ElementsMatch(t, []string{"/test/UserServiceTest"}, paths(got))

	got = query.ElementsByType(m, domain.TypeQuery{Type: "class", Scope: "/missing"})
	assert.Empty(t, got)
}

func TestElementsByType_SupersetOfNameSearch(t *testing.T) {
	m := searchModel(t)

	for _, typ := range []string{"class", "method", "dir", "file"} {
		byType := paths(query.ElementsByType(m, domain.TypeQuery{Type: typ}))
		byName := paths(query.SearchByName(m, domain.NameQuery{Pattern: ".", Type: typ}))
		assert.Subset(t, byType, byName, "type %q", typ)
	}
}

func TestSearchByAttributes(t *testing.T) {
	m := searchModel(t)

	tests := []struct {
		name    string
		filters domain.Attributes
		scope   string
		want    []string
	}{
		{
			name:    "string regex",
			filters: domain.Attributes{"language": domain.StringValue("^ja")},
			want:    []string{"/src/UserService", "/src/UserService/save"},
		},
		{
			name:    "conjunction",
			filters: domain.Attributes{"language": domain.StringValue("java"), "loc": domain.IntValue(120)},
			want:    []string{"/src/UserService"},
		},
		{
			name:    "numeric equality across int and float",
			filters: domain.Attributes{"loc": domain.IntValue(120)},
			want:    []string{"/src/UserService", "/src/OrderService"},
		},
		{
			name:    "bool equality",
			filters: domain.Attributes{"public": domain.BoolValue(true)},
			want:    []string{"/src/UserService"},
		},
		{
			name:    "type mismatch never matches",
			filters: domain.Attributes{"loc": domain.StringValue("120")},
			want:    []string{},
		},
		{
			name:    "invalid pattern falls back to equality",
			filters: domain.Attributes{"pattern": domain.StringValue("[bad")},
			want:    []string{"/src/x[y"},
		},
		{
			name:    "missing attribute fails",
			filters: domain.Attributes{"owner": domain.StringValue(".")},
			want:    []string{},
		},
		{
			name:    "intrinsic name",
			filters: domain.Attributes{"name": domain.StringValue("Test$")},
			want:    []string{"/test/UserServiceTest"},
		},
		{
			name:    "scoped",
			filters: domain.Attributes{"language": domain.StringValue("java")},
			scope:   "/src/UserService/save",
			want:    []string{"/src/UserService/save"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.SearchByAttributes(m, domain.AttributeQuery{Filters: tt.filters, Scope: tt.scope})
			assert.ElementsMatch(t, tt.want, paths(got))
		})
	}
}

func TestSearchByAttributes_EmptyFiltersMatchEverything(t *testing.T) {
	m := searchModel(t)

	got := query.SearchByAttributes(m, domain.AttributeQuery{})
	assert.Len(t, got, m.ElementCount())
}

func TestCompilePattern(t *testing.T) {
	assert.True(t, query.CompilePattern("*.go").MatchString("main.go"))
	assert.True(t, query.CompilePattern("a?c").MatchString("abc"))
	assert.True(t, query.CompilePattern("(unclosed").MatchString("x(unclosed"))
	assert.True(t, query.CompilePattern("").MatchString("anything"))
}
