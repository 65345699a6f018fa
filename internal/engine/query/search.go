// Package query implements read-only structural queries over a loaded model:
// scoped search, dependency analysis, overviews and batched lookups.
// Queries never mutate the model and take no locks.
package query

import (
	"regexp"
	"strings"

	"go.trai.ch/strata/internal/core/domain"
)

// SearchByName returns the elements under the scope whose name contains a
// match for the pattern, optionally restricted to one type.
// Result order is unspecified.
func SearchByName(m *domain.Model, q domain.NameQuery) []*domain.Element {
	re := CompilePattern(q.Pattern)
	return collect(m, q.Scope, func(el *domain.Element) bool {
		if !re.MatchString(el.Name) {
			return false
		}
		return q.Type == "" || el.Type.String() == q.Type
	})
}

// ElementsByType returns the elements under the scope with exactly the given type.
func ElementsByType(m *domain.Model, q domain.TypeQuery) []*domain.Element {
	return collect(m, q.Scope, func(el *domain.Element) bool {
		return el.Type.String() == q.Type
	})
}

// SearchByAttributes returns the elements under the scope that satisfy every
// filter. An element lacking a filtered attribute never matches. String
// filters against string attributes are regular expression searches, falling
// back to equality when the filter is not a valid expression; all other
// combinations require equal values.
func SearchByAttributes(m *domain.Model, q domain.AttributeQuery) []*domain.Element {
	preds := make([]attributePredicate, 0, len(q.Filters))
	for key, expected := range q.Filters {
		preds = append(preds, newAttributePredicate(key, expected))
	}

	return collect(m, q.Scope, func(el *domain.Element) bool {
		for _, p := range preds {
			if !p.match(el) {
				return false
			}
		}
		return true
	})
}

// CompilePattern compiles a name pattern. Invalid expressions are retried as
// glob patterns ('*' and '?') and finally matched literally.
func CompilePattern(pattern string) *regexp.Regexp {
	if re, err := regexp.Compile(pattern); err == nil {
		return re
	}
	glob := strings.NewReplacer("*", ".*", "?", ".").Replace(pattern)
	if re, err := regexp.Compile(glob); err == nil {
		return re
	}
	return regexp.MustCompile(regexp.QuoteMeta(pattern))
}

type attributePredicate struct {
	key      string
	expected domain.Value
	re       *regexp.Regexp
}

func newAttributePredicate(key string, expected domain.Value) attributePredicate {
	p := attributePredicate{key: key, expected: expected}
	if s, ok := expected.Str(); ok {
		if re, err := regexp.Compile(s); err == nil {
			p.re = re
		}
	}
	return p
}

func (p attributePredicate) match(el *domain.Element) bool {
	actual, ok := el.Attribute(p.key)
	if !ok {
		return false
	}

	want, wantString := p.expected.Str()
	got, gotString := actual.Str()
	if wantString && gotString {
		if p.re != nil {
			return p.re.MatchString(got)
		}
		return got == want
	}
	return actual.Equal(p.expected)
}

// collect walks the scoped subtree depth first and returns the elements
// accepted by keep. An unresolvable scope yields no elements.
func collect(m *domain.Model, scope string, keep func(*domain.Element) bool) []*domain.Element {
	start, ok := resolveScope(m, scope)
	if !ok {
		return []*domain.Element{}
	}

	results := []*domain.Element{}
	stack := []*domain.Element{start}
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if keep(el) {
			results = append(results, el)
		}
		for _, child := range el.Children {
			stack = append(stack, m.Element(child))
		}
	}
	return results
}

func resolveScope(m *domain.Model, scope string) (*domain.Element, bool) {
	if scope == "" {
		return m.Root()
	}
	return m.Lookup(scope)
}
