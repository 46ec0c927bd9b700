package catalog

import "supplymatch/internal"

// Snapshot is one immutable view of the catalog. It is built once per
// fetch and only ever read afterwards, so concurrent reconciliation
// runs can share it freely.
type Snapshot struct {
	Items []internal.CatalogItem // raw list, groups included
	Pool  []internal.CatalogItem // searchable: no groups, no excluded ids

	excluded map[string]struct{}
	byID     map[string]internal.CatalogItem
}

func NewSnapshot(items []internal.CatalogItem) *Snapshot {
	s := &Snapshot{
		Items:    items,
		excluded: BuildExclusions(items),
		byID:     make(map[string]internal.CatalogItem, len(items)),
	}
	for _, it := range items {
		if it.Name == "" || it.Type == internal.TypeGroup {
			continue
		}
		if _, ok := s.excluded[it.ID]; ok {
			continue
		}
		s.Pool = append(s.Pool, it)
		s.byID[it.ID] = it
	}
	return s
}

// Contains reports whether id is a valid match target: a purchasable
// item outside the excluded hierarchies.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *Snapshot) Get(id string) (internal.CatalogItem, bool) {
	it, ok := s.byID[id]
	return it, ok
}

func (s *Snapshot) Excluded(id string) bool {
	_, ok := s.excluded[id]
	return ok
}
