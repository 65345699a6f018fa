package app

import (
	"time"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
)

// LoadResult is returned by the load tool.
type LoadResult struct {
	ModelID string `json:"model_id"`
}

// IncomingResult is returned by the get_incoming tool.
type IncomingResult struct {
	ElementPath  string                  `json:"element_path"`
	Associations []query.AssociationView `json:"incoming_associations"`
	Count        int                     `json:"count"`
}

// OutgoingResult is returned by the get_outgoing tool.
type OutgoingResult struct {
	ElementPath  string                  `json:"element_path"`
	Associations []query.AssociationView `json:"outgoing_associations"`
	Count        int                     `json:"count"`
}

// NameSearchResult is returned by the search_by_name tool.
type NameSearchResult struct {
	Elements []query.ElementView `json:"elements"`
	Count    int                 `json:"count"`
	Pattern  string              `json:"pattern"`
}

// TypeSearchResult is returned by the get_by_type tool.
type TypeSearchResult struct {
	Elements    []query.ElementView `json:"elements"`
	Count       int                 `json:"count"`
	ElementType string              `json:"element_type"`
}

// AttributeSearchResult is returned by the search_by_attributes tool.
type AttributeSearchResult struct {
	Elements         []query.ElementView `json:"elements"`
	Count            int                 `json:"count"`
	AttributeFilters map[string]any      `json:"attribute_filters"`
}

// SubtreeResult is returned by the subtree_dependencies tool.
type SubtreeResult struct {
	SubtreeElements      []query.ElementView     `json:"subtree_elements"`
	InternalDependencies []query.AssociationView `json:"internal_dependencies"`
	IncomingDependencies []query.AssociationView `json:"incoming_dependencies"`
	OutgoingDependencies []query.AssociationView `json:"outgoing_dependencies"`
}

// ChainResult is returned by the dependency_chain tool. MaxDepth is null when
// the walk was unbounded.
type ChainResult struct {
	RootElement     string                  `json:"root_element"`
	Direction       string                  `json:"direction"`
	MaxDepth        *int                    `json:"max_depth"`
	Chain           []query.ChainRecordView `json:"chain"`
	AllDependencies []query.ChainLinkView   `json:"all_dependencies"`
}

// MultipleElementsResult is returned by the multiple_elements tool.
type MultipleElementsResult struct {
	RequestedCount int                 `json:"requested_count"`
	FoundCount     int                 `json:"found_count"`
	Elements       []query.ElementView `json:"elements"`
	NotFound       []string            `json:"not_found"`
}

// OverviewResult is returned by the model_overview tool. TreeStructure is an
// empty object for a model without root.
type OverviewResult struct {
	RootPath      string            `json:"root_path"`
	MaxDepth      int               `json:"max_depth"`
	TreeStructure any               `json:"tree_structure"`
	Summary       query.SummaryView `json:"summary"`
}

// ModelSummary describes one cached model in the list_models result.
type ModelSummary struct {
	RootName       string    `json:"root_name"`
	ChildrenCount  int       `json:"children_count"`
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loaded_at"`
	LoadDurationMS int64     `json:"load_duration_ms"`
	Elements       int       `json:"elements"`
	Associations   int       `json:"associations"`
	Stale          bool      `json:"stale"`
}

// ModelsResult is returned by the list_models tool.
type ModelsResult struct {
	Models map[string]ModelSummary `json:"models"`
	Count  int                     `json:"count"`
}

// RemoveResult is returned by the remove_model tool.
type RemoveResult struct {
	ModelID string `json:"model_id"`
	Removed bool   `json:"removed"`
}

// ClearResult is returned by the clear_models tool.
type ClearResult struct {
	Cleared int `json:"cleared"`
}

// FreshnessResult is returned by the check_freshness tool.
type FreshnessResult struct {
	ModelID       string     `json:"model_id"`
	Source        string     `json:"source"`
	LoadedAt      time.Time  `json:"loaded_at"`
	Digest        string     `json:"digest"`
	CurrentDigest string     `json:"current_digest,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
	SizeBytes     int64      `json:"size_bytes"`
	Exists        bool       `json:"exists"`
	Stale         bool       `json:"stale"`
}

func summarize(info domain.ModelInfo) ModelSummary {
	return ModelSummary{
		RootName:       info.RootName,
		ChildrenCount:  info.ChildrenCount,
		Source:         info.Source,
		LoadedAt:       info.LoadedAt,
		LoadDurationMS: info.LoadDuration.Milliseconds(),
		Elements:       info.Elements,
		Associations:   info.Associations,
		Stale:          info.Stale,
	}
}

func freshnessResult(f domain.Freshness) FreshnessResult {
	r := FreshnessResult{
		ModelID:       f.ID,
		Source:        f.Source,
		LoadedAt:      f.LoadedAt,
		Digest:        f.Digest,
		CurrentDigest: f.CurrentDigest,
		SizeBytes:     f.SizeBytes,
		Exists:        f.Exists,
		Stale:         f.Stale,
	}
	if !f.ModifiedAt.IsZero() {
		modified := f.ModifiedAt
		r.ModifiedAt = &modified
	}
	return r
}
