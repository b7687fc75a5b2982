package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/jsign/contract-sizes/analysis"
	"github.com/jsign/contract-sizes/analysis/z31bytechunker"
	"github.com/jsign/contract-sizes/artifact"
	"github.com/jsign/contract-sizes/history"
	"github.com/jsign/contract-sizes/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const buildInfoTemplate = `{
  "id": "b1",
  "solcVersion": "0.8.20",
  "output": {
    "sources": {"contracts/A.sol": {"id": 0}},
    "contracts": {
      "contracts/A.sol": {
        "A": {
          "evm": {
            "bytecode": {"object": "6001%[1]s", "sourceMap": "0:1:0", "generatedSources": []},
            "deployedBytecode": {"object": "%[1]s", "sourceMap": "%[2]s", "generatedSources": []}
          }
        }
      }
    }
  }
}`

func writeArtifacts(t *testing.T, root, runtime, sourceMap string) {
	t.Helper()
	files := map[string]string{
		"build-info/b1.json":         fmt.Sprintf(buildInfoTemplate, runtime, sourceMap),
		"contracts/A.sol/A.json":     `{"contractName": "A", "sourceName": "contracts/A.sol"}`,
		"contracts/A.sol/A.dbg.json": `{"buildInfo": "../../build-info/b1.json"}`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func testConfig(t *testing.T) Config {
	cfg := defaultConfig
	cfg.Artifacts = t.TempDir()
	cfg.Cache = t.TempDir()
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Details = true
	// PUSH1 01, PUSH1 02, SSTORE and a 4 byte metadata block
	writeArtifacts(t, cfg.Artifacts, "6001600255aabb0002", "0:1:0;;")

	var out bytes.Buffer
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Contains(t, out.String(), "contracts/A.sol")
	assert.Contains(t, out.String(), "## metadata hash")
	assert.Contains(t, out.String(), "== Total")
	assert.Contains(t, out.String(), "56%")
	assert.NotContains(t, out.String(), "±code")

	// no snapshot without diff
	_, err := os.Stat(cfg.snapshotPath())
	assert.True(t, os.IsNotExist(err))
}

func TestRunDiff(t *testing.T) {
	cfg := testConfig(t)
	cfg.Diff = true
	writeArtifacts(t, cfg.Artifacts, "6001600255aabb0002", "0:1:0;;")

	var out bytes.Buffer
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Contains(t, out.String(), "±code")

	snap, err := history.Load(cfg.snapshotPath())
	require.NoError(t, err)
	assert.Equal(t, 9, snap["A"].CodeSize)
	assert.Equal(t, 2, snap["A"].InitSize)

	writeArtifacts(t, cfg.Artifacts, "60016002556003aabb0002", "0:1:0;;;")
	out.Reset()
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Contains(t, out.String(), "+2")

	snap, err = history.Load(cfg.snapshotPath())
	require.NoError(t, err)
	assert.Equal(t, 11, snap["A"].CodeSize)
}

func TestRunChunks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chunks = true
	writeArtifacts(t, cfg.Artifacts, "6001600255aabb0002", "0:1:0;;")

	var out bytes.Buffer
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Contains(t, out.String(), "31bytechunker")
	assert.Contains(t, out.String(), "32bytechunker")
	assert.Contains(t, out.String(), "31bytechunker stems")
}

func TestTotalRowChunks(t *testing.T) {
	cfg := testConfig(t)
	tbl := newTable(cfg, []analysis.Chunker{z31bytechunker.New()}, false)
	assert.Equal(t, []string{"contract", "code", "init", "31bytechunker", "31bytechunker stems"}, tbl.header())

	e := report.Entry{SizeRecord: analysis.SizeRecord{
		Name:     "A",
		CodeSize: 4200,
		InitSize: 2,
		Chunks:   []analysis.ChunkerMetrics{{ChunkerName: "31bytechunker", ChunkedSizeBytes: 4352, Stems: 2}},
	}}
	assert.Equal(t, []string{"A", "4,200", "2", "4,352", "2"}, tbl.totalRow(e))
}

func TestRunMessages(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Equal(t, "No contracts found\n", out.String())

	writeArtifacts(t, cfg.Artifacts, "6001600255aabb0002", "0:1:0;;")
	cfg.MinSize = 1000
	out.Reset()
	require.NoError(t, run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out))
	assert.Equal(t, "There are no contracts exceeding 1000 bytes\n", out.String())
}

func TestRunCorruptSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Diff = true
	writeArtifacts(t, cfg.Artifacts, "6001600255aabb0002", "0:1:0;;")
	require.NoError(t, os.WriteFile(cfg.snapshotPath(), []byte("[1,2"), 0644))

	var out bytes.Buffer
	err := run(cfg, artifact.Dir{Root: cfg.Artifacts}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrCorrupt))
	assert.Empty(t, out.String())
}
