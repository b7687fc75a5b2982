package artifact

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const buildInfoDir = "build-info"

// ContractRef names a compiled contract and the build-info file holding its
// compiler output.
type ContractRef struct {
	SourceName   string
	ContractName string
	// BuildInfo is the base name of the build-info file, empty when unknown.
	BuildInfo string
}

func (r ContractRef) FullyQualifiedName() string {
	return r.SourceName + ":" + r.ContractName
}

// In reports whether the contract may be compiled in the given build-info file.
func (r ContractRef) In(buildInfoPath string) bool {
	return r.BuildInfo == "" || r.BuildInfo == filepath.Base(buildInfoPath)
}

// Source gives access to compiled artifacts.
type Source interface {
	Contracts() ([]ContractRef, error)
	BuildInfoPaths() ([]string, error)
	ReadBuildInfo(path string) (*BuildInfo, error)
}

// Dir is a hardhat artifacts directory.
type Dir struct {
	Root string
}

var _ Source = Dir{}

func (d Dir) BuildInfoPaths() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(d.Root, buildInfoDir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "listing build info")
	}
	return paths, nil
}

func (d Dir) ReadBuildInfo(path string) (*BuildInfo, error) {
	return ReadBuildInfo(path)
}

type contractArtifact struct {
	ContractName string `json:"contractName"`
	SourceName   string `json:"sourceName"`
}

type debugFile struct {
	BuildInfo string `json:"buildInfo"`
}

// Contracts lists every contract artifact under the directory.
func (d Dir) Contracts() ([]ContractRef, error) {
	var refs []ContractRef
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != d.Root && entry.Name() == buildInfoDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		var art contractArtifact
		if err := readJSON(path, &art); err != nil {
			return err
		}
		if art.ContractName == "" {
			return nil
		}
		ref := ContractRef{SourceName: art.SourceName, ContractName: art.ContractName}

		var dbg debugFile
		switch err := readJSON(debugFilePath(path), &dbg); {
		case err == nil:
			ref.BuildInfo = filepath.Base(dbg.BuildInfo)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing artifacts in %s", d.Root)
	}
	return refs, nil
}

func debugFilePath(artifactPath string) string {
	return strings.TrimSuffix(artifactPath, ".json") + ".dbg.json"
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}
