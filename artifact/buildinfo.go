// Package artifact reads the compiler output hardhat stores under its
// artifacts directory.
package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/jsign/contract-sizes/analysis"
)

// ErrContractNotFound is returned when a build-info file has no compiler
// output for a contract.
var ErrContractNotFound = errors.New("contract not found in build info")

type GeneratedSource struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Bytecode struct {
	Object           string            `json:"object"`
	SourceMap        string            `json:"sourceMap"`
	GeneratedSources []GeneratedSource `json:"generatedSources"`
}

// Generated returns the compiler generated fragments of the bytecode.
func (b *Bytecode) Generated() []analysis.GeneratedSource {
	out := make([]analysis.GeneratedSource, 0, len(b.GeneratedSources))
	for _, src := range b.GeneratedSources {
		out = append(out, analysis.GeneratedSource{ID: analysis.SourceID(src.ID), Name: src.Name})
	}
	return out
}

type EVM struct {
	Bytecode         Bytecode `json:"bytecode"`
	DeployedBytecode Bytecode `json:"deployedBytecode"`
}

type Contract struct {
	EVM EVM `json:"evm"`
}

type SourceOutput struct {
	ID int `json:"id"`
}

type Output struct {
	Contracts map[string]map[string]*Contract `json:"contracts"`
	Sources   map[string]SourceOutput         `json:"sources"`
}

// BuildInfo is a single solc compilation as recorded by hardhat.
type BuildInfo struct {
	ID          string `json:"id"`
	SolcVersion string `json:"solcVersion"`
	Output      Output `json:"output"`

	// Path is the file the build info was read from.
	Path string `json:"-"`
}

// ReadBuildInfo parses a build-info file.
func ReadBuildInfo(path string) (*BuildInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading build info")
	}
	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrapf(err, "decoding build info %s", path)
	}
	info.Path = path
	return &info, nil
}

// SourceTable returns the table of source files of the compilation.
func (b *BuildInfo) SourceTable() analysis.SourceTable {
	files := make(map[analysis.SourceID]string, len(b.Output.Sources))
	for path, src := range b.Output.Sources {
		files[analysis.SourceID(src.ID)] = path
	}
	return analysis.NewSourceTable(files)
}

// Lookup returns the compiler output of a contract.
func (b *BuildInfo) Lookup(ref ContractRef) (*Contract, error) {
	if contract := b.Output.Contracts[ref.SourceName][ref.ContractName]; contract != nil {
		return contract, nil
	}
	return nil, errors.Wrapf(ErrContractNotFound, "%s in %s", ref.FullyQualifiedName(), filepath.Base(b.Path))
}
