package analysis

import (
	"cmp"
	"slices"
)

// Tally counts bytes per source id. Zero counts are never stored.
type Tally map[SourceID]int

func (t Tally) Add(id SourceID, n int) {
	if n > 0 {
		t[id] += n
	}
}

func (t Tally) Total() int {
	var total int
	for _, n := range t {
		total += n
	}
	return total
}

// SourceSize is the contribution of one source to a contract.
type SourceSize struct {
	Source
	CodeSize int
	InitSize int
}

// SizeRecord is the size breakdown of a single contract.
type SizeRecord struct {
	Name               string
	FullyQualifiedName string
	CodeSize           int
	InitSize           int
	Sources            []SourceSize
	Chunks             []ChunkerMetrics
}

// SortSources orders sources by runtime size, then by name.
func (r *SizeRecord) SortSources() {
	slices.SortFunc(r.Sources, func(a, b SourceSize) int {
		if c := cmp.Compare(a.CodeSize, b.CodeSize); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.InitSize, b.InitSize)
	})
}

// CompareRecords orders records by runtime size, then by name.
func CompareRecords(a, b SizeRecord) int {
	if c := cmp.Compare(a.CodeSize, b.CodeSize); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
