package domain

// Unlimited disables a depth bound.
const Unlimited = -1

// Direction selects which associations a chain traversal follows.
type Direction string

const (
	// DirectionOutgoing follows associations from an element to its targets.
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming follows associations from an element to its sources.
	DirectionIncoming Direction = "incoming"
	// DirectionBoth follows outgoing associations, then incoming ones.
	DirectionBoth Direction = "both"
)

// ParseDirection validates s. The empty string selects DirectionOutgoing.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return DirectionOutgoing, nil
	case DirectionOutgoing, DirectionIncoming, DirectionBoth:
		return Direction(s), nil
	default:
		return "", Annotate(ErrInvalidDirection, "direction", s)
	}
}

// Follows reports whether d includes the single direction other.
func (d Direction) Follows(other Direction) bool {
	return d == other || d == DirectionBoth
}

// WithinDepth reports whether depth satisfies max, where Unlimited (or any
// negative bound) accepts everything.
func WithinDepth(depth, limit int) bool {
	return limit < 0 || depth <= limit
}

// NameQuery searches element names.
type NameQuery struct {
	Pattern string
	// Type, when non-empty, must equal the element type exactly.
	Type  string
	Scope string
}

// TypeQuery selects elements by exact type.
type TypeQuery struct {
	Type  string
	Scope string
}

// AttributeQuery selects elements matching every filter.
type AttributeQuery struct {
	Filters Attributes
	Scope   string
}

// SubtreeQuery describes a subtree dependency categorization.
type SubtreeQuery struct {
	Root            string
	IncludeExternal bool
	MaxDepth        int
	// ExternalSegment names the namespace dropped when IncludeExternal is false.
	ExternalSegment string
}

// SubtreeDependencies is the categorized dependency set of a subtree.
type SubtreeDependencies struct {
	Elements []*Element
	Internal []*Association
	Incoming []*Association
	Outgoing []*Association
}

// ChainQuery describes a transitive dependency walk.
type ChainQuery struct {
	Start     string
	Direction Direction
	MaxDepth  int
}

// ChainLink is one association examined during a chain walk. From is the
// element being expanded and To is the neighbour reached through the link.
type ChainLink struct {
	From      string
	To        string
	Direction Direction
	Type      string
	Depth     int
}

// ChainRecord is the ancestor path, from the start element, of an element
// whose expansion completed.
type ChainRecord struct {
	Path  []string
	Depth int
}

// DependencyChain is the result of a chain walk.
type DependencyChain struct {
	Root         string
	Direction    Direction
	MaxDepth     int
	Chain        []ChainRecord
	Dependencies []ChainLink
}

// OverviewQuery describes a structural snapshot.
type OverviewQuery struct {
	MaxDepth      int
	IncludeCounts bool
}

// NodeCounts carries the cardinalities of one element.
type NodeCounts struct {
	Children int
	Incoming int
	Outgoing int
}

// OverviewNode describes one element of an overview tree.
type OverviewNode struct {
	Element *Element
	Depth   int
	// Counts is nil unless counts were requested.
	Counts *NodeCounts
	// Children is nil when the depth bound stopped expansion.
	Children []*OverviewNode
	// Truncated is the number of children hidden by the depth bound.
	Truncated int
}

// OverviewSummary aggregates a whole overview walk.
type OverviewSummary struct {
	TotalElements    int
	DepthCounts      map[int]int
	TypeDistribution map[string]int
}

// Overview is a depth bounded snapshot of a model.
type Overview struct {
	RootPath string
	MaxDepth int
	Tree     *OverviewNode
	Summary  OverviewSummary
}

// BatchLookup is the result of resolving several paths.
type BatchLookup struct {
	Requested int
	Found     []*Element
	NotFound  []string
}
