package analysis

import (
	"fmt"
	"strconv"
)

// SourceID identifies a source file or compiler generated fragment within one
// build-info file. Negative ids are reserved for pseudo sources.
type SourceID int

const (
	NonMappedID SourceID = -1
	MetadataID  SourceID = -2
	NonCodeID   SourceID = -3
)

// SourceKind tells what produced a range of bytecode.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindFile
	KindGenerated
	KindNonMapped
	KindMetadata
	KindNonCode
)

var kindNames = map[SourceKind]string{
	KindUnknown:   "unknown",
	KindFile:      "file",
	KindGenerated: "generated",
	KindNonMapped: "non-mapped",
	KindMetadata:  "metadata",
	KindNonCode:   "non-code",
}

func (k SourceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Source is a resolved source id.
type Source struct {
	ID   SourceID
	Kind SourceKind
	Name string
}

// Pseudo reports whether the source is not a real source file.
func (s Source) Pseudo() bool {
	return s.Kind != KindFile
}

var pseudoSources = map[SourceID]Source{
	NonMappedID: {ID: NonMappedID, Kind: KindNonMapped, Name: "## non-mapped bytecode"},
	MetadataID:  {ID: MetadataID, Kind: KindMetadata, Name: "## metadata hash"},
	NonCodeID:   {ID: NonCodeID, Kind: KindNonCode, Name: "## non-code bytes"},
}

// GeneratedSource is a compiler injected fragment, scoped to one bytecode.
type GeneratedSource struct {
	ID   SourceID
	Name string
}

// SourceTable resolves source ids of one build-info file. It is shared by all
// contracts of that file and is never modified after construction.
type SourceTable struct {
	files     map[SourceID]string
	generated map[SourceID]string
}

// NewSourceTable builds a table from the compiler's id -> path list.
func NewSourceTable(files map[SourceID]string) SourceTable {
	t := SourceTable{files: make(map[SourceID]string, len(files))}
	for id, path := range files {
		if id < 0 {
			// pseudo ids can't be shadowed
			continue
		}
		t.files[id] = path
	}
	return t
}

// WithGenerated returns a view of the table that additionally resolves the
// generated fragments of a single bytecode.
func (t SourceTable) WithGenerated(sources []GeneratedSource) SourceTable {
	view := SourceTable{files: t.files, generated: make(map[SourceID]string, len(sources))}
	for _, src := range sources {
		view.generated[src.ID] = src.Name
	}
	return view
}

// Resolve maps an id to its source. Ids known to neither the file list nor
// the generated fragments resolve to an unknown source, so no byte is dropped.
func (t SourceTable) Resolve(id SourceID) Source {
	if src, ok := pseudoSources[id]; ok {
		return src
	}
	if path, ok := t.files[id]; ok {
		return Source{ID: id, Kind: KindFile, Name: path}
	}
	if name, ok := t.generated[id]; ok {
		return Source{ID: id, Kind: KindGenerated, Name: "## compiler " + name}
	}
	return Source{ID: id, Kind: KindUnknown, Name: fmt.Sprintf("<unknown:%d>", id)}
}

// Len returns the number of source files in the table.
func (t SourceTable) Len() int {
	return len(t.files)
}
