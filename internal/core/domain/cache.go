package domain

import "time"

// UnnamedRoot is reported for models whose root element has no name.
const UnnamedRoot = "unnamed"

// ModelInfo summarizes one cached model.
type ModelInfo struct {
	ID            string
	Source        string
	Digest        string
	LoadedAt      time.Time
	LoadDuration  time.Duration
	RootName      string
	ChildrenCount int
	Elements      int
	Associations  int
	Stale         bool
}

// Describe fills the structural fields of a ModelInfo from m.
func Describe(m *Model) ModelInfo {
	info := ModelInfo{RootName: UnnamedRoot}
	root, ok := m.Root()
	if !ok {
		return info
	}
	if root.Name != "" {
		info.RootName = root.Name
	}
	info.ChildrenCount = len(root.Children)
	info.Elements = m.ElementCount()
	info.Associations = m.AssociationCount()
	return info
}

// Freshness compares a cached model with its source file on disk.
type Freshness struct {
	ID            string
	Source        string
	LoadedAt      time.Time
	Digest        string
	CurrentDigest string
	ModifiedAt    time.Time
	SizeBytes     int64
	Exists        bool
	Stale         bool
}
