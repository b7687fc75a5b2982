// Package z31bytechunker measures code the way EIP-6800 stores it: 31 bytes
// of code per 32-byte chunk, the first byte holding the number of leading
// PUSHDATA bytes.
package z31bytechunker

import (
	"github.com/ethereum/go-ethereum/trie"
	"github.com/jsign/contract-sizes/analysis"
)

const name = "31bytechunker"

type Chunker struct{}

func New() *Chunker {
	return &Chunker{}
}

func (c *Chunker) Name() string {
	return name
}

func (c *Chunker) Chunk(code []byte) analysis.ChunkerMetrics {
	chunked := len(trie.ChunkifyCode(code))
	return analysis.ChunkerMetrics{
		ChunkerName:      name,
		ChunkedSizeBytes: chunked,
		Stems:            analysis.CodeStems(chunked / 32),
	}
}
