package query

import "go.trai.ch/strata/internal/core/domain"

// LookupMany resolves each path independently. Duplicate paths are resolved
// and counted once per occurrence.
func LookupMany(m *domain.Model, paths []string) domain.BatchLookup {
	result := domain.BatchLookup{
		Requested: len(paths),
		Found:     make([]*domain.Element, 0, len(paths)),
		NotFound:  []string{},
	}
	for _, p := range paths {
		if el, ok := m.Lookup(p); ok {
			result.Found = append(result.Found, el)
		} else {
			result.NotFound = append(result.NotFound, p)
		}
	}
	return result
}
