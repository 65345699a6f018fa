package app

import (
	"context"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
	"go.trai.ch/zerr"
)

// LoadRequest is the argument of the load tool.
type LoadRequest struct {
	Path string `json:"path"`
}

// ModelRequest addresses one cached model.
type ModelRequest struct {
	ModelID string `json:"model_id" validate:"required"`
}

// ElementRequest addresses one element of a cached model.
type ElementRequest struct {
	ModelID     string `json:"model_id" validate:"required"`
	ElementPath string `json:"element_path"`
}

// NameSearchRequest is the argument of the search_by_name tool.
type NameSearchRequest struct {
	ModelID     string `json:"model_id" validate:"required"`
	Pattern     string `json:"pattern" validate:"required"`
	ElementType string `json:"element_type"`
	ScopePath   string `json:"scope_path"`
}

// TypeSearchRequest is the argument of the get_by_type tool.
type TypeSearchRequest struct {
	ModelID     string `json:"model_id" validate:"required"`
	ElementType string `json:"element_type" validate:"required"`
	ScopePath   string `json:"scope_path"`
}

// AttributeSearchRequest is the argument of the search_by_attributes tool.
type AttributeSearchRequest struct {
	ModelID          string         `json:"model_id" validate:"required"`
	AttributeFilters map[string]any `json:"attribute_filters" validate:"required"`
	ScopePath        string         `json:"scope_path"`
}

// SubtreeRequest is the argument of the subtree_dependencies tool.
type SubtreeRequest struct {
	ModelID         string `json:"model_id" validate:"required"`
	RootPath        string `json:"root_path"`
	IncludeExternal bool   `json:"include_external"`
	MaxDepth        *int   `json:"max_depth" validate:"omitempty,min=0"`
}

// ChainRequest is the argument of the dependency_chain tool.
type ChainRequest struct {
	ModelID     string `json:"model_id" validate:"required"`
	ElementPath string `json:"element_path"`
	Direction   string `json:"direction"`
	MaxDepth    *int   `json:"max_depth" validate:"omitempty,min=0"`
}

// MultipleElementsRequest is the argument of the multiple_elements tool.
type MultipleElementsRequest struct {
	ModelID          string   `json:"model_id" validate:"required"`
	ElementPaths     []string `json:"element_paths" validate:"required"`
	AdditionalFields []string `json:"additional_fields"`
}

// OverviewRequest is the argument of the model_overview tool.
type OverviewRequest struct {
	ModelID       string `json:"model_id" validate:"required"`
	MaxDepth      int    `json:"max_depth" validate:"min=0"`
	IncludeCounts bool   `json:"include_counts"`
}

func (a *App) registerTools() {
	v := a.validate
	a.register(bind("load", "Load a model file and return its model id.",
		zero[LoadRequest], v, a.Load))
	a.register(bind("get_root", "Get the root element of a model.",
		zero[ModelRequest], v, a.GetRoot))
	a.register(bind("get_element", "Get an element of a model by path.",
		zero[ElementRequest], v, a.GetElement))
	a.register(bind("get_incoming", "Get the incoming associations of one element, excluding its children.",
		zero[ElementRequest], v, a.GetIncoming))
	a.register(bind("get_outgoing", "Get the outgoing associations of one element, excluding its children.",
		zero[ElementRequest], v, a.GetOutgoing))
	a.register(bind("search_by_name", "Search elements by name pattern (regex or glob), optionally filtered by type and scope.",
		zero[NameSearchRequest], v, a.SearchByName))
	a.register(bind("get_by_type", "Get all elements of a type, optionally limited to a scope.",
		zero[TypeSearchRequest], v, a.GetByType))
	a.register(bind("search_by_attributes", "Search elements whose attributes match every filter.",
		zero[AttributeSearchRequest], v, a.SearchByAttributes))
	a.register(bind("subtree_dependencies", "Get the dependencies of a subtree, categorized as internal, incoming and outgoing.",
		func() SubtreeRequest { return SubtreeRequest{IncludeExternal: true} }, v, a.SubtreeDependencies))
	a.register(bind("dependency_chain", "Get the transitive dependency chain of an element: outgoing, incoming or both.",
		func() ChainRequest { return ChainRequest{Direction: string(domain.DirectionOutgoing)} }, v, a.DependencyChain))
	a.register(bind("multiple_elements", "Get several elements in one request.",
		zero[MultipleElementsRequest], v, a.MultipleElements))
	a.register(bind("model_overview", "Get a depth bounded hierarchical overview of a model.",
		func() OverviewRequest {
			return OverviewRequest{MaxDepth: a.config.OverviewDepth, IncludeCounts: true}
		}, v, a.ModelOverview))
	a.register(bind("list_models", "List the cached models.",
		zero[struct{}], v, a.ListModels))
	a.register(bind("remove_model", "Remove a model from the cache.",
		zero[ModelRequest], v, a.RemoveModel))
	a.register(bind("clear_models", "Remove every model from the cache.",
		zero[struct{}], v, a.ClearModels))
	a.register(bind("check_freshness", "Compare a cached model with its source file.",
		zero[ModelRequest], v, a.CheckFreshness))
}

func (a *App) model(id string) (*domain.Model, error) {
	m, ok := a.cache.Get(id)
	if !ok {
		return nil, domain.Annotate(domain.ErrModelNotFound, "model_id", id)
	}
	return m, nil
}

func (a *App) element(req ElementRequest) (*domain.Model, *domain.Element, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, nil, err
	}
	el, ok := m.Lookup(req.ElementPath)
	if !ok {
		return nil, nil, domain.Annotate(domain.ErrElementNotFound, "path", req.ElementPath)
	}
	return m, el, nil
}

func depthLimit(d *int) int {
	if d == nil {
		return domain.Unlimited
	}
	return *d
}

// Load loads the model file at req.Path into the cache.
func (a *App) Load(ctx context.Context, req LoadRequest) (any, error) {
	id, err := a.cache.Load(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	a.watchSource(id)
	return LoadResult{ModelID: id}, nil
}

// GetRoot returns the root element of a model.
func (a *App) GetRoot(_ context.Context, req ModelRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	root, ok := m.Root()
	if !ok {
		return nil, domain.Annotate(domain.ErrRootNotFound, "model_id", req.ModelID)
	}
	return query.ProjectElement(m, root, nil), nil
}

// GetElement returns one element by path.
func (a *App) GetElement(_ context.Context, req ElementRequest) (any, error) {
	m, el, err := a.element(req)
	if err != nil {
		return nil, err
	}
	return query.ProjectElement(m, el, nil), nil
}

// GetIncoming returns the associations ending at one element.
func (a *App) GetIncoming(_ context.Context, req ElementRequest) (any, error) {
	m, el, err := a.element(req)
	if err != nil {
		return nil, err
	}
	views := query.ProjectAssociationIDs(m, el.Incoming)
	return IncomingResult{ElementPath: req.ElementPath, Associations: views, Count: len(views)}, nil
}

// GetOutgoing returns the associations starting at one element.
func (a *App) GetOutgoing(_ context.Context, req ElementRequest) (any, error) {
	m, el, err := a.element(req)
	if err != nil {
		return nil, err
	}
	views := query.ProjectAssociationIDs(m, el.Outgoing)
	return OutgoingResult{ElementPath: req.ElementPath, Associations: views, Count: len(views)}, nil
}

// SearchByName searches element names.
func (a *App) SearchByName(_ context.Context, req NameSearchRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	found := query.SearchByName(m, domain.NameQuery{
		Pattern: req.Pattern,
		Type:    req.ElementType,
		Scope:   req.ScopePath,
	})
	views := query.ProjectElements(m, found, nil)
	return NameSearchResult{Elements: views, Count: len(views), Pattern: req.Pattern}, nil
}

// GetByType selects elements by exact type.
func (a *App) GetByType(_ context.Context, req TypeSearchRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	found := query.ElementsByType(m, domain.TypeQuery{Type: req.ElementType, Scope: req.ScopePath})
	views := query.ProjectElements(m, found, nil)
	return TypeSearchResult{Elements: views, Count: len(views), ElementType: req.ElementType}, nil
}

// SearchByAttributes selects elements matching every attribute filter.
func (a *App) SearchByAttributes(_ context.Context, req AttributeSearchRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}

	filters := make(domain.Attributes, len(req.AttributeFilters))
	for key, raw := range req.AttributeFilters {
		v, err := domain.ValueOf(raw)
		if err != nil {
			return nil, zerr.With(err, "attribute", key)
		}
		filters[key] = v
	}

	found := query.SearchByAttributes(m, domain.AttributeQuery{Filters: filters, Scope: req.ScopePath})
	views := query.ProjectElements(m, found, nil)
	return AttributeSearchResult{Elements: views, Count: len(views), AttributeFilters: req.AttributeFilters}, nil
}

// SubtreeDependencies categorizes the dependencies of a subtree.
func (a *App) SubtreeDependencies(_ context.Context, req SubtreeRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	deps := query.SubtreeDependencies(m, domain.SubtreeQuery{
		Root:            req.RootPath,
		IncludeExternal: req.IncludeExternal,
		MaxDepth:        depthLimit(req.MaxDepth),
		ExternalSegment: a.config.ExternalSegment,
	})
	return SubtreeResult{
		SubtreeElements:      query.ProjectElements(m, deps.Elements, nil),
		InternalDependencies: query.ProjectAssociations(m, deps.Internal),
		IncomingDependencies: query.ProjectAssociations(m, deps.Incoming),
		OutgoingDependencies: query.ProjectAssociations(m, deps.Outgoing),
	}, nil
}

// DependencyChain walks the transitive dependencies of an element.
func (a *App) DependencyChain(_ context.Context, req ChainRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	chain, err := query.DependencyChain(m, domain.ChainQuery{
		Start:     req.ElementPath,
		Direction: domain.Direction(req.Direction),
		MaxDepth:  depthLimit(req.MaxDepth),
	})
	if err != nil {
		return nil, err
	}
	records, links := query.ProjectChain(chain)
	return ChainResult{
		RootElement:     chain.Root,
		Direction:       string(chain.Direction),
		MaxDepth:        req.MaxDepth,
		Chain:           records,
		AllDependencies: links,
	}, nil
}

// MultipleElements resolves several paths at once.
func (a *App) MultipleElements(_ context.Context, req MultipleElementsRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	batch := query.LookupMany(m, req.ElementPaths)
	return MultipleElementsResult{
		RequestedCount: batch.Requested,
		FoundCount:     len(batch.Found),
		Elements:       query.ProjectElements(m, batch.Found, req.AdditionalFields),
		NotFound:       batch.NotFound,
	}, nil
}

// ModelOverview builds a depth bounded snapshot of a model.
func (a *App) ModelOverview(_ context.Context, req OverviewRequest) (any, error) {
	m, err := a.model(req.ModelID)
	if err != nil {
		return nil, err
	}
	ov := query.Overview(m, domain.OverviewQuery{MaxDepth: req.MaxDepth, IncludeCounts: req.IncludeCounts})

	var tree any = map[string]any{}
	if ov.Tree != nil {
		tree = query.ProjectOverview(ov.Tree)
	}
	return OverviewResult{
		RootPath:      ov.RootPath,
		MaxDepth:      ov.MaxDepth,
		TreeStructure: tree,
		Summary:       query.ProjectSummary(ov.Summary),
	}, nil
}

// ListModels summarizes every cached model.
func (a *App) ListModels(_ context.Context, _ struct{}) (any, error) {
	infos := a.cache.List()
	models := make(map[string]ModelSummary, len(infos))
	for id, info := range infos {
		models[id] = summarize(info)
	}
	return ModelsResult{Models: models, Count: len(models)}, nil
}

// RemoveModel drops one model from the cache.
func (a *App) RemoveModel(_ context.Context, req ModelRequest) (any, error) {
	return RemoveResult{ModelID: req.ModelID, Removed: a.cache.Remove(req.ModelID)}, nil
}

// ClearModels drops every model from the cache.
func (a *App) ClearModels(_ context.Context, _ struct{}) (any, error) {
	return ClearResult{Cleared: a.cache.Clear()}, nil
}

// CheckFreshness compares a cached model with its source file.
func (a *App) CheckFreshness(_ context.Context, req ModelRequest) (any, error) {
	f, err := a.cache.Freshness(req.ModelID)
	if err != nil {
		return nil, err
	}
	return freshnessResult(f), nil
}
