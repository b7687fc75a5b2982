// Package aggregator turns the compiler output of a contract into a size
// record, merging the byte tallies of its creation and runtime code.
package aggregator

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/jsign/contract-sizes/analysis"
	"github.com/jsign/contract-sizes/analysis/decoder"
	"github.com/jsign/contract-sizes/artifact"
)

const (
	creationVariant = "creation"
	runtimeVariant  = "runtime"
)

// Aggregate builds the size record of a contract. The source table is the one
// of the build-info file the contract was compiled in.
func Aggregate(table analysis.SourceTable, ref artifact.ContractRef, contract *artifact.Contract, chunkers ...analysis.Chunker) (analysis.SizeRecord, error) {
	var (
		creation = &contract.EVM.Bytecode
		runtime  = &contract.EVM.DeployedBytecode
	)
	// The creation code is followed by the runtime image it deploys.
	initRes, err := decoder.Decode(creation.SourceMap, creation.Object, len(strings.TrimPrefix(runtime.Object, "0x")), false)
	if err != nil {
		return analysis.SizeRecord{}, errors.Wrapf(err, "%s %s code", ref.FullyQualifiedName(), creationVariant)
	}
	codeRes, err := decoder.Decode(runtime.SourceMap, runtime.Object, 0, true)
	if err != nil {
		return analysis.SizeRecord{}, errors.Wrapf(err, "%s %s code", ref.FullyQualifiedName(), runtimeVariant)
	}

	rec := analysis.SizeRecord{
		Name:               ref.ContractName,
		FullyQualifiedName: ref.FullyQualifiedName(),
		CodeSize:           codeRes.CodeLength,
		InitSize:           initRes.CodeLength,
	}

	// Generated fragment ids are only meaningful within their own bytecode, so
	// entries are merged by resolved name rather than by id.
	var (
		sources = make(map[string]*analysis.SourceSize)
		entry   = func(src analysis.Source) *analysis.SourceSize {
			if s, ok := sources[src.Name]; ok {
				if src.ID < s.ID {
					s.Source = src
				}
				return s
			}
			s := &analysis.SourceSize{Source: src}
			sources[src.Name] = s
			return s
		}
	)
	initTable := table.WithGenerated(creation.Generated())
	for id, n := range initRes.Tally {
		entry(initTable.Resolve(id)).InitSize += n
	}
	codeTable := table.WithGenerated(runtime.Generated())
	for id, n := range codeRes.Tally {
		entry(codeTable.Resolve(id)).CodeSize += n
	}
	rec.Sources = make([]analysis.SourceSize, 0, len(sources))
	for _, s := range sources {
		rec.Sources = append(rec.Sources, *s)
	}
	rec.SortSources()

	if len(chunkers) > 0 {
		code, err := hexutil.Decode("0x" + strings.TrimPrefix(runtime.Object, "0x"))
		if err != nil {
			// unlinked libraries leave placeholders in the code
			log.Debug("Skipping code chunking", "contract", rec.FullyQualifiedName, "err", err)
			return rec, nil
		}
		for _, ch := range chunkers {
			rec.Chunks = append(rec.Chunks, ch.Chunk(code))
		}
	}
	return rec, nil
}
