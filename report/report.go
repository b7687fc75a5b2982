// Package report sizes the selected contracts of a build and compares them
// with a previous run.
package report

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/jsign/contract-sizes/analysis"
	"github.com/jsign/contract-sizes/analysis/aggregator"
	"github.com/jsign/contract-sizes/artifact"
	"github.com/jsign/contract-sizes/history"
)

type Options struct {
	// Contracts selects contracts by name or fully qualified name. Empty
	// selects every contract.
	Contracts []string
	// MinSize hides contracts whose code and init size add up to less.
	MinSize  int
	Chunkers []analysis.Chunker
}

type Entry struct {
	analysis.SizeRecord
	// Delta is the change since the previous snapshot, nil when unknown or
	// unchanged.
	Delta *history.ContractDelta
}

type Report struct {
	// Entries are sorted by code size, then by name.
	Entries []Entry
	// Sized is the number of contracts sized, before MinSize is applied.
	Sized int
	// Skipped holds the per contract failures. They don't fail the run.
	Skipped []error
	// Snapshot is the snapshot of every sized contract, including the ones
	// below MinSize.
	Snapshot history.Snapshot
}

// Generate sizes the selected contracts of src. When prev is not nil every
// entry is compared against it.
func Generate(src artifact.Source, opts Options, prev history.Snapshot) (*Report, error) {
	refs, err := selectContracts(src, opts.Contracts)
	if err != nil {
		return nil, err
	}
	paths, err := src.BuildInfoPaths()
	if err != nil {
		return nil, err
	}

	var (
		rep     = new(Report)
		records []analysis.SizeRecord
	)
	// refs without a known build-info file are sized from the first file
	// holding them, and only fail when no file does.
	var (
		found    = mapset.NewThreadUnsafeSet[artifact.ContractRef]()
		notFound = make(map[artifact.ContractRef]error)
	)
	for _, path := range paths {
		var pending []artifact.ContractRef
		for _, ref := range refs {
			if ref.In(path) && !found.Contains(ref) {
				pending = append(pending, ref)
			}
		}
		if len(pending) == 0 {
			continue
		}
		info, err := src.ReadBuildInfo(path)
		if err != nil {
			return nil, err
		}
		table := info.SourceTable()
		for _, ref := range pending {
			contract, err := info.Lookup(ref)
			if err != nil {
				if ref.BuildInfo == "" {
					notFound[ref] = err
					continue
				}
				log.Error("Build info not found", "contract", ref.FullyQualifiedName(), "buildinfo", path, "err", err)
				rep.Skipped = append(rep.Skipped, err)
				continue
			}
			if ref.BuildInfo == "" {
				found.Add(ref)
				delete(notFound, ref)
			}
			rec, err := aggregator.Aggregate(table, ref, contract, opts.Chunkers...)
			if err != nil {
				log.Error("Failed to size contract", "contract", ref.FullyQualifiedName(), "err", err)
				rep.Skipped = append(rep.Skipped, err)
				continue
			}
			log.Debug("Sized contract", "contract", rec.FullyQualifiedName, "code", rec.CodeSize, "init", rec.InitSize, "sources", len(rec.Sources))
			records = append(records, rec)
		}
	}
	for _, ref := range refs {
		if err, ok := notFound[ref]; ok {
			log.Error("Build info not found", "contract", ref.FullyQualifiedName(), "err", err)
			rep.Skipped = append(rep.Skipped, err)
		}
	}
	slices.SortStableFunc(records, analysis.CompareRecords)

	rep.Sized = len(records)
	rep.Snapshot = history.NewSnapshot(records)
	for _, rec := range records {
		if rec.CodeSize+rec.InitSize < opts.MinSize {
			continue
		}
		entry := Entry{SizeRecord: rec}
		if prev != nil {
			if d, ok := prev.Diff(rec); ok {
				entry.Delta = &d
			}
		}
		rep.Entries = append(rep.Entries, entry)
	}
	return rep, nil
}

func selectContracts(src artifact.Source, names []string) ([]artifact.ContractRef, error) {
	all, err := src.Contracts()
	if err != nil {
		return nil, err
	}
	filter := mapset.NewThreadUnsafeSet(names...)
	if filter.Cardinality() == 0 {
		return all, nil
	}
	var selected []artifact.ContractRef
	for _, ref := range all {
		if filter.Contains(ref.ContractName) || filter.Contains(ref.FullyQualifiedName()) {
			selected = append(selected, ref)
		}
	}
	return selected, nil
}
